// Package vector provides 3D vector operations
package vector

import "math"

// Vec3 is an ordered (x, y, z) triple in scene coordinates.
// Values are immutable; every operation returns a new vector.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Zero is the origin.
var Zero = Vec3{}

// Unit axes.
var (
	UnitX = Vec3{X: 1}
	UnitY = Vec3{Y: 1}
	UnitZ = Vec3{Z: 1}
)

// Add returns the sum of two vectors
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns the difference between two vectors
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Mul scales a vector by a scalar
func (v Vec3) Mul(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }

// Neg returns the vector pointing the other way
func (v Vec3) Neg() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

// Dot returns the dot product of two vectors
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product of two vectors
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Len returns the vector's magnitude (Euclidean norm). It does not
// overflow for components whose squares would.
func (v Vec3) Len() float64 { return math.Hypot(math.Hypot(v.X, v.Y), v.Z) }

// Distance returns the length of the segment between v and o
func (v Vec3) Distance(o Vec3) float64 { return v.Sub(o).Len() }

// IsFinite reports whether no component is NaN or infinite.
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X+v.Y+v.Z) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}

// IsZero reports whether all components are exactly zero
func (v Vec3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// Normalize returns a unit vector in the same direction.
// The zero vector normalizes to itself.
func (v Vec3) Normalize() Vec3 {
	n := v.Len()
	if n == 0 {
		return Vec3{}
	}
	return v.div(n)
}

// Direction returns the unit direction of v, or fallback when v has no
// direction (zero length or non-finite components).
func (v Vec3) Direction(fallback Vec3) Vec3 {
	n := v.Len()
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return fallback
	}
	return v.div(n)
}

func (v Vec3) div(k float64) Vec3 { return Vec3{v.X / k, v.Y / k, v.Z / k} }

// Lerp interpolates between v (t=0) and o (t=1)
func (v Vec3) Lerp(o Vec3, t float64) Vec3 { return v.Add(o.Sub(v).Mul(t)) }

// ApproxEqual reports whether every component differs by at most eps
func (v Vec3) ApproxEqual(o Vec3, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps && math.Abs(v.Z-o.Z) <= eps
}

// Components returns x, y, z as an array
func (v Vec3) Components() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }
