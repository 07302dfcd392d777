package scene

import (
	"vecviz/internal/geometry/vector"
)

// BreakdownPath returns the three axis-aligned steps from the origin to v:
// origin -> (x,0,0) -> (x,y,0) -> (x,y,z).
func BreakdownPath(v vector.Vec3) []Line {
	px := vector.Vec3{X: v.X}
	pxy := vector.Vec3{X: v.X, Y: v.Y}
	seg := func(a, b vector.Vec3) Line {
		return Line{From: a, To: b, Color: ColorBreakdown, Opacity: BreakdownOpacity, Kind: KindBreakdown}
	}
	return []Line{
		seg(vector.Zero, px),
		seg(px, pxy),
		seg(pxy, v),
	}
}

// Breakdown adds the component paths of both vectors when enabled.
type Breakdown struct{}

func (Breakdown) Apply(in Input, sc *Scene) {
	if !in.Settings.Breakdown {
		return
	}
	sc.Lines = append(sc.Lines, BreakdownPath(in.Vector)...)
	sc.Lines = append(sc.Lines, BreakdownPath(in.Transformed)...)
}
