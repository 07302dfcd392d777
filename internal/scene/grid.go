package scene

import (
	"math"

	"vecviz/internal/geometry/matrix"
	"vecviz/internal/geometry/vector"
)

// Plane is a coordinate plane through the origin.
type Plane string

const (
	PlaneYZ Plane = "yz"
	PlaneXZ Plane = "xz"
	PlaneXY Plane = "xy"
)

// basis returns the two in-plane unit axes.
func (p Plane) basis() (u, v vector.Vec3) {
	switch p {
	case PlaneYZ:
		return vector.UnitY, vector.UnitZ
	case PlaneXZ:
		return vector.UnitX, vector.UnitZ
	default:
		return vector.UnitX, vector.UnitY
	}
}

// Normal returns the unit normal of the plane.
func (p Plane) Normal() vector.Vec3 {
	u, v := p.basis()
	return u.Cross(v)
}

// rotation turns a grid lying in the XZ plane into p (Euler XYZ, radians).
func (p Plane) rotation() vector.Vec3 {
	switch p {
	case PlaneYZ:
		return vector.Vec3{Z: math.Pi / 2}
	case PlaneXY:
		return vector.Vec3{X: math.Pi / 2}
	default:
		return vector.Vec3{}
	}
}

// Grid is a square grid centered at the origin.
type Grid struct {
	Plane     Plane       `json:"plane" yaml:"plane"`
	Size      float64     `json:"size" yaml:"size"`
	Divisions int         `json:"divisions" yaml:"divisions"`
	Center    vector.Vec3 `json:"center" yaml:"center"`
	// Rotation turns an XZ-plane grid into Plane, for renderers that only
	// build horizontal grids.
	Rotation vector.Vec3 `json:"rotation" yaml:"rotation"`
	Color    Color       `json:"color" yaml:"color"`
	Opacity  float64     `json:"opacity" yaml:"opacity"`
}

// NewGrid returns the grid of side 2*axisLength with 2*axisLength divisions
// lying in p.
func NewGrid(p Plane, axisLength float64) Grid {
	div := int(math.Round(2 * axisLength))
	if div < 1 {
		div = 1
	}
	return Grid{
		Plane:     p,
		Size:      2 * axisLength,
		Divisions: div,
		Rotation:  p.rotation(),
		Color:     ColorGrid,
		Opacity:   GridOpacity,
	}
}

// Lines expands the grid into its Divisions+1 lines along each in-plane axis.
func (g Grid) Lines() []Line {
	u, v := g.Plane.basis()
	half := g.Size / 2
	step := g.Size / float64(g.Divisions)
	out := make([]Line, 0, 2*(g.Divisions+1))
	for i := 0; i <= g.Divisions; i++ {
		c := -half + float64(i)*step
		out = append(out,
			Line{From: g.Center.Add(u.Mul(c)).Add(v.Mul(-half)), To: g.Center.Add(u.Mul(c)).Add(v.Mul(half)), Color: g.Color, Opacity: g.Opacity},
			Line{From: g.Center.Add(v.Mul(c)).Add(u.Mul(-half)), To: g.Center.Add(v.Mul(c)).Add(u.Mul(half)), Color: g.Color, Opacity: g.Opacity},
		)
	}
	return out
}

var gridPlanes = []Plane{PlaneYZ, PlaneXZ, PlaneXY}

// Grids adds the three coordinate-plane grids when enabled.
type Grids struct{}

func (Grids) Apply(in Input, sc *Scene) {
	if !in.Settings.Grid {
		return
	}
	for _, p := range gridPlanes {
		sc.Grids = append(sc.Grids, NewGrid(p, in.AxisLength()))
	}
}

// TransformGrid maps every line of g through m.
func TransformGrid(g Grid, m matrix.Mat3) []Line {
	lines := g.Lines()
	for i, l := range lines {
		lines[i] = Line{
			From:    m.Apply(l.From),
			To:      m.Apply(l.To),
			Color:   ColorTransformed,
			Opacity: GridOpacity,
			Kind:    KindTransformedGrid,
		}
	}
	return lines
}

// TransformedGrids adds the coordinate-plane grids as seen through the
// matrix when enabled.
type TransformedGrids struct{}

func (TransformedGrids) Apply(in Input, sc *Scene) {
	if !in.Settings.TransformedGrid {
		return
	}
	for _, p := range gridPlanes {
		sc.Lines = append(sc.Lines, TransformGrid(NewGrid(p, in.AxisLength()), in.Matrix)...)
	}
}
