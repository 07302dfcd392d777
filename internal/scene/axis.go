package scene

import (
	"math"

	"vecviz/internal/geometry/vector"
)

// TickCount returns the number of tick strips on an axis line of the given
// length: one at the start and one at every spacing interval, including a
// tick that lands exactly on the end. length is the full line length, so an
// axis drawn from -L to +L passes 2L.
func TickCount(length, spacing float64) int {
	if !(spacing > 0) || length < 0 {
		return 0
	}
	// tolerate accumulated error so exact multiples keep their end tick
	return int(math.Floor(length/spacing+1e-9)) + 1
}

// tickNormal is perpendicular to dir and has length halfWidth.
// The reference direction is +Z unless dir is nearly parallel to it.
func tickNormal(dir vector.Vec3, halfWidth float64) vector.Vec3 {
	ref := vector.UnitZ
	if math.Abs(dir.Z) > 0.99 {
		ref = vector.UnitX
	}
	return dir.Cross(ref).Normalize().Mul(halfWidth)
}

// AxisLine returns the line from start to end followed by its tick strips.
func AxisLine(start, end vector.Vec3, c Color, spacing, halfWidth float64) []Line {
	out := []Line{{From: start, To: end, Color: c, Opacity: 1, Kind: KindAxis}}

	length := start.Distance(end)
	if length == 0 {
		return out
	}
	dir := end.Sub(start).Mul(1 / length)
	perp := tickNormal(dir, halfWidth)

	n := TickCount(length, spacing)
	for i := 0; i < n; i++ {
		p := start.Add(dir.Mul(float64(i) * spacing))
		out = append(out, Line{
			From:    p.Add(perp),
			To:      p.Sub(perp),
			Color:   c,
			Opacity: 1,
			Kind:    KindTick,
		})
	}
	return out
}

// Axes draws the three coordinate axes from -AxisLength to +AxisLength.
type Axes struct{}

func (Axes) Apply(in Input, sc *Scene) {
	l := in.AxisLength()
	for _, dir := range []vector.Vec3{vector.UnitX, vector.UnitY, vector.UnitZ} {
		sc.Lines = append(sc.Lines, AxisLine(dir.Mul(-l), dir.Mul(l), ColorAxis, in.TickSpacing, in.TickHalfWidth)...)
	}
}
