package input

import (
	"strconv"
	"strings"

	"vecviz/internal/geometry/matrix"
	"vecviz/internal/geometry/vector"
)

// values reads up to n tokens. Missing or unreadable values are 0.
func values(s string, n int) []float64 {
	out := make([]float64, n)
	for i, tok := range split(s) {
		if i >= n {
			break
		}
		if f, ok := number(tok); ok {
			out[i] = f
		}
	}
	return out
}

// ParseVector converts "x,y,z" into a vector. It never fails: values that
// cannot be read become 0. Run CheckVector first.
func ParseVector(s string) vector.Vec3 {
	v := values(s, VectorArity)
	return vector.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// ParseMatrix converts nine row-major values into a matrix. It never fails:
// values that cannot be read become 0. Run CheckMatrix first.
func ParseMatrix(s string) matrix.Mat3 {
	var a [MatrixArity]float64
	copy(a[:], values(s, MatrixArity))
	return matrix.FromValues(a)
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

func join(fs []float64) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = formatFloat(f)
	}
	return strings.Join(parts, ",")
}

// FormatVector renders v as text that ParseVector reads back exactly.
func FormatVector(v vector.Vec3) string {
	c := v.Components()
	return join(c[:])
}

// FormatMatrix renders m as nine row-major values.
func FormatMatrix(m matrix.Mat3) string {
	vs := m.Values()
	return join(vs[:])
}
