package scene

import (
	"math"

	"vecviz/internal/geometry/vector"
)

// Arrow head proportions.
const (
	HeadLength = 0.3
	HeadWidth  = 0.2
)

// FallbackDirection is used for arrows of vectors without a direction.
var FallbackDirection = vector.UnitY

// Arrow runs from Origin along Dir for Length.
// A zero vector gives a Degenerate arrow of length 0 pointing along
// FallbackDirection; renderers draw at most a point for it.
type Arrow struct {
	Name       string      `json:"name" yaml:"name"`
	Origin     vector.Vec3 `json:"origin" yaml:"origin"`
	Dir        vector.Vec3 `json:"dir" yaml:"dir"`
	Length     float64     `json:"length" yaml:"length"`
	HeadLength float64     `json:"headLength" yaml:"head_length"`
	HeadWidth  float64     `json:"headWidth" yaml:"head_width"`
	Color      Color       `json:"color" yaml:"color"`
	Degenerate bool        `json:"degenerate,omitempty" yaml:"degenerate,omitempty"`
}

// NewArrow builds the arrow for v starting at the origin.
// Heads longer than the arrow are shortened to fit.
func NewArrow(name string, v vector.Vec3, c Color) Arrow {
	a := Arrow{
		Name:       name,
		Dir:        v.Direction(FallbackDirection),
		Length:     v.Len(),
		HeadLength: HeadLength,
		HeadWidth:  HeadWidth,
		Color:      c,
	}
	if a.Length == 0 || math.IsNaN(a.Length) || math.IsInf(a.Length, 0) {
		a.Length = 0
		a.Degenerate = true
	}
	if a.HeadLength > a.Length {
		a.HeadLength = a.Length
		a.HeadWidth = HeadWidth * a.Length / HeadLength
	}
	return a
}

// Tip is the point the arrow points to.
func (a Arrow) Tip() vector.Vec3 { return a.Origin.Add(a.Dir.Mul(a.Length)) }

// ShaftEnd is where the shaft meets the head.
func (a Arrow) ShaftEnd() vector.Vec3 { return a.Origin.Add(a.Dir.Mul(a.Length - a.HeadLength)) }

// HeadLines returns the head outline as four barbs from the tip, spread
// along two directions perpendicular to Dir.
func (a Arrow) HeadLines() []Line {
	if a.Degenerate || a.HeadLength == 0 {
		return nil
	}
	p := tickNormal(a.Dir, a.HeadWidth/2)
	q := a.Dir.Cross(p)
	base := a.ShaftEnd()
	tip := a.Tip()
	out := make([]Line, 0, 4)
	for _, off := range []vector.Vec3{p, p.Neg(), q, q.Neg()} {
		out = append(out, Line{From: tip, To: base.Add(off), Color: a.Color, Opacity: 1})
	}
	return out
}

// Vectors adds the original and transformed arrows.
type Vectors struct{}

func (Vectors) Apply(in Input, sc *Scene) {
	sc.Arrows = append(sc.Arrows,
		NewArrow("v", in.Vector, ColorVector),
		NewArrow("u", in.Transformed, ColorTransformed),
	)
}
