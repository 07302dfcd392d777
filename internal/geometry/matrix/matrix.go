// Package matrix holds the 3x3 linear map applied to scene vectors.
package matrix

import (
	"vecviz/internal/geometry/vector"
)

// Mat3 is a row-major 3x3 matrix; Mij is row i, column j.
type Mat3 struct {
	M11 float64 `json:"m11" yaml:"m11"`
	M12 float64 `json:"m12" yaml:"m12"`
	M13 float64 `json:"m13" yaml:"m13"`
	M21 float64 `json:"m21" yaml:"m21"`
	M22 float64 `json:"m22" yaml:"m22"`
	M23 float64 `json:"m23" yaml:"m23"`
	M31 float64 `json:"m31" yaml:"m31"`
	M32 float64 `json:"m32" yaml:"m32"`
	M33 float64 `json:"m33" yaml:"m33"`
}

// Identity returns the identity matrix.
func Identity() Mat3 {
	return Mat3{
		M11: 1,
		M22: 1,
		M33: 1,
	}
}

// Zero returns the matrix that maps every vector to the origin.
func Zero() Mat3 { return Mat3{} }

// Diag returns a matrix scaling each axis independently.
func Diag(x, y, z float64) Mat3 {
	return Mat3{M11: x, M22: y, M33: z}
}

// FromValues builds a matrix from nine row-major values.
func FromValues(v [9]float64) Mat3 {
	return Mat3{
		M11: v[0], M12: v[1], M13: v[2],
		M21: v[3], M22: v[4], M23: v[5],
		M31: v[6], M32: v[7], M33: v[8],
	}
}

// Values returns the entries in row-major order.
func (m Mat3) Values() [9]float64 {
	return [9]float64{
		m.M11, m.M12, m.M13,
		m.M21, m.M22, m.M23,
		m.M31, m.M32, m.M33,
	}
}

// Rows returns the three rows as vectors.
func (m Mat3) Rows() [3]vector.Vec3 {
	return [3]vector.Vec3{
		{X: m.M11, Y: m.M12, Z: m.M13},
		{X: m.M21, Y: m.M22, Z: m.M23},
		{X: m.M31, Y: m.M32, Z: m.M33},
	}
}

// Apply returns m·v.
func (m Mat3) Apply(v vector.Vec3) vector.Vec3 {
	return vector.Vec3{
		X: v.X*m.M11 + v.Y*m.M12 + v.Z*m.M13,
		Y: v.X*m.M21 + v.Y*m.M22 + v.Z*m.M23,
		Z: v.X*m.M31 + v.Y*m.M32 + v.Z*m.M33,
	}
}

// Transform computes u = m·v. It is total over finite inputs.
func Transform(v vector.Vec3, m Mat3) vector.Vec3 { return m.Apply(v) }

// IsIdentity reports whether m is exactly the identity matrix.
func (m Mat3) IsIdentity() bool { return m == Identity() }
