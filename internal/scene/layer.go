package scene

import (
	"math"

	"vecviz/internal/geometry/vector"
)

// Layer contributes primitives to a scene under construction.
// Each implementation reads the Input and appends to the Scene; layers
// never remove what an earlier layer added.
type Layer interface {
	Apply(in Input, sc *Scene)
}

// Chain is a composite layer that applies its layers in order.
type Chain struct {
	Layers []Layer
}

// Apply runs every layer in the chain, in order.
func (c *Chain) Apply(in Input, sc *Scene) {
	for _, l := range c.Layers {
		l.Apply(in, sc)
	}
}

// Default is the chain Build uses. Order determines draw order for
// renderers without depth sorting.
var Default = &Chain{
	Layers: []Layer{Grids{}, TransformedGrids{}, Axes{}, Breakdown{}, Vectors{}, Labels{}},
}

// AutoScale picks a unit and axis length that fit both vectors: the unit is
// the component range over ten, rounded up, and the length is ten units or
// the largest component, whichever is larger. A zero unit means the vectors
// give no usable scale.
func AutoScale(v, u vector.Vec3) (unit, length float64) {
	a, b := v.Components(), u.Components()
	vals := append(a[:], b[:]...)
	lo, hi := vals[0], vals[0]
	for _, x := range vals[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	unit = math.Ceil((hi - lo) / 10)
	length = math.Max(10*unit, hi)
	return unit, length
}
