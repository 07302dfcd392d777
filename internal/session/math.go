package session

import (
	"strconv"
	"strings"

	"vecviz/internal/geometry/matrix"
	"vecviz/internal/geometry/vector"
)

func num(f float64) string { return strconv.FormatFloat(f, 'g', 6, 64) }

// column pads the cells of one bracketed column to a common width.
func column(cells []string) []string {
	w := 0
	for _, c := range cells {
		w = max(w, len(c))
	}
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = "[ " + strings.Repeat(" ", w-len(c)) + c + " ]"
	}
	return out
}

// MathLines lays out u = T · v as three text rows.
func MathLines(v vector.Vec3, m matrix.Mat3, u vector.Vec3) [3]string {
	rows := m.Rows()
	var mc [3][]string
	for _, r := range rows {
		for j, x := range r.Components() {
			mc[j] = append(mc[j], num(x))
		}
	}
	vec := func(x vector.Vec3) []string {
		return column([]string{num(x.X), num(x.Y), num(x.Z)})
	}
	pad := func(cells []string) []string {
		w := 0
		for _, c := range cells {
			w = max(w, len(c))
		}
		for i, c := range cells {
			cells[i] = strings.Repeat(" ", w-len(c)) + c
		}
		return cells
	}
	cols := [3][]string{pad(mc[0]), pad(mc[1]), pad(mc[2])}
	vs, us := vec(v), vec(u)

	var out [3]string
	for i := 0; i < 3; i++ {
		mid := "   "
		eq := "   "
		if i == 1 {
			mid = " · "
			eq = " = "
		}
		out[i] = "[ " + cols[0][i] + " " + cols[1][i] + " " + cols[2][i] + " ]" + mid + vs[i] + eq + us[i]
	}
	return out
}

// MathText renders the committed product as "u = T · v" followed by the
// three rows of the equation.
func (s *Session) MathText() string {
	l := MathLines(s.vec, s.mat, s.transformed)
	return "u = T · v\n" + strings.Join(l[:], "\n")
}
