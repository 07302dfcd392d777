// Package scene derives the drawable primitives of a vector transformation
// view: axes with tick strips, coordinate-plane grids, the original and
// transformed vector arrows, component breakdown paths and label anchors.
//
// A Scene is plain data. Nothing here talks to a rendering API; renderers
// consume a *Scene and draw it. Every Build is a full recomputation, so a
// caller replaces its previous Scene wholesale instead of patching it.
package scene

import (
	"fmt"
	"image/color"
	"math"

	"vecviz/internal/geometry/matrix"
	"vecviz/internal/geometry/vector"
)

// Color is a packed 0xRRGGBB value.
type Color uint32

// Palette used by the default layers.
const (
	ColorAxis        Color = 0xffff00
	ColorGrid        Color = 0x808080
	ColorVector      Color = 0x00ffff
	ColorTransformed Color = 0xff0000
	ColorLabel       Color = 0xaaaaaa
	ColorBreakdown   Color = 0xffffff
)

// RGB returns the components in [0, 1].
func (c Color) RGB() (r, g, b float64) {
	return float64(c>>16&0xff) / 255, float64(c>>8&0xff) / 255, float64(c&0xff) / 255
}

// NRGBA converts c to a standard color with the given opacity in [0, 1].
func (c Color) NRGBA(opacity float64) color.NRGBA {
	a := math.Max(0, math.Min(1, opacity))
	return color.NRGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: uint8(math.Round(a * 255))}
}

func (c Color) String() string { return fmt.Sprintf("#%06x", uint32(c)&0xffffff) }

// MarshalText encodes the color as "#rrggbb".
func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Kind tags what a line primitive belongs to.
type Kind string

const (
	KindAxis            Kind = "axis"
	KindTick            Kind = "tick"
	KindBreakdown       Kind = "breakdown"
	KindTransformedGrid Kind = "transformed-grid"
)

// Opacities of the translucent layers.
const (
	GridOpacity      = 0.3
	BreakdownOpacity = 0.5
)

// Line is a straight segment.
type Line struct {
	From    vector.Vec3 `json:"from" yaml:"from"`
	To      vector.Vec3 `json:"to" yaml:"to"`
	Color   Color       `json:"color" yaml:"color"`
	Opacity float64     `json:"opacity" yaml:"opacity"`
	Kind    Kind        `json:"kind" yaml:"kind"`
}

// Label is a text anchor.
type Label struct {
	Text  string      `json:"text" yaml:"text"`
	At    vector.Vec3 `json:"at" yaml:"at"`
	Color Color       `json:"color" yaml:"color"`
}

// Settings selects which optional layers are generated.
// The flags are independent of each other.
type Settings struct {
	Grid            bool `json:"showGrid" yaml:"grid" mapstructure:"grid"`
	TransformedGrid bool `json:"showTransformedGrid" yaml:"transformed_grid" mapstructure:"transformed_grid"`
	Labels          bool `json:"showLabels" yaml:"labels" mapstructure:"labels"`
	Breakdown       bool `json:"showVectorBreakdown" yaml:"breakdown" mapstructure:"breakdown"`
}

// DefaultSettings has every layer on.
func DefaultSettings() Settings {
	return Settings{Grid: true, TransformedGrid: true, Labels: true, Breakdown: true}
}

// Default scale and tick sizing.
const (
	DefaultUnit          = 5.0
	DefaultLength        = 100.0
	DefaultTickSpacing   = 1.0
	DefaultTickHalfWidth = 0.1
)

// Input is everything a Scene is derived from.
type Input struct {
	Vector      vector.Vec3
	Matrix      matrix.Mat3
	Transformed vector.Vec3
	Settings    Settings

	// Unit and Length give the axis half-extent Length/Unit.
	Unit   float64
	Length float64

	TickSpacing   float64
	TickHalfWidth float64
}

func (in Input) withDefaults() Input {
	if !(in.Unit > 0) {
		in.Unit = DefaultUnit
	}
	if !(in.Length > 0) {
		in.Length = DefaultLength
	}
	if !(in.TickSpacing > 0) {
		in.TickSpacing = DefaultTickSpacing
	}
	if !(in.TickHalfWidth > 0) {
		in.TickHalfWidth = DefaultTickHalfWidth
	}
	return in
}

// AxisLength is the symmetric half-extent drawn along each axis.
func (in Input) AxisLength() float64 {
	in = in.withDefaults()
	return in.Length / in.Unit
}

// Scene is one complete, immutable set of primitives.
type Scene struct {
	// Generation increases each time the owner rebuilds its scene.
	Generation uint64  `json:"generation" yaml:"generation"`
	AxisLength float64 `json:"axisLength" yaml:"axis_length"`

	Lines  []Line  `json:"lines" yaml:"lines"`
	Grids  []Grid  `json:"grids" yaml:"grids"`
	Arrows []Arrow `json:"arrows" yaml:"arrows"`
	Labels []Label `json:"labels" yaml:"labels"`
}

// Build derives a scene from in using the default layer chain.
func Build(in Input) *Scene {
	in = in.withDefaults()
	sc := &Scene{AxisLength: in.AxisLength()}
	Default.Apply(in, sc)
	return sc
}

// LinesOf returns the lines of the given kind.
func (s *Scene) LinesOf(k Kind) []Line {
	var out []Line
	for _, l := range s.Lines {
		if l.Kind == k {
			out = append(out, l)
		}
	}
	return out
}

// Arrow returns the arrow with the given name.
func (s *Scene) Arrow(name string) (Arrow, bool) {
	for _, a := range s.Arrows {
		if a.Name == name {
			return a, true
		}
	}
	return Arrow{}, false
}

// Stats summarises primitive counts for logging.
func (s *Scene) Stats() map[string]int {
	st := map[string]int{
		"grids":  len(s.Grids),
		"arrows": len(s.Arrows),
		"labels": len(s.Labels),
	}
	for _, l := range s.Lines {
		st[string(l.Kind)]++
	}
	return st
}
