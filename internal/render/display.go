// Package render turns a scene into screen-space drawing commands and
// rasterizes them.
//
// Flatten projects a *scene.Scene through a Camera into a DisplayList of
// 2D segments, triangles, dots and texts. Backends (the PNG rasterizer
// here, the window viewer elsewhere) only ever draw a DisplayList. A Stage
// holds the list currently on screen and swaps it for a fresh one whenever
// the scene generation or the camera changes.
package render

import (
	"math"
	"sort"

	"vecviz/internal/geometry/vector"
	"vecviz/internal/scene"
)

// Stroke widths in pixels.
const (
	AxisWidth  = 1.5
	LineWidth  = 1.0
	ShaftWidth = 2.5
	DotRadius  = 3.0
)

// Point is a screen position in pixels.
type Point struct{ X, Y float64 }

type Segment struct {
	A, B  Point
	Color scene.Color
	Alpha float64
	Width float64
	depth float64
}

type Triangle struct {
	P     [3]Point
	Color scene.Color
	Alpha float64
}

type Dot struct {
	At     Point
	Radius float64
	Color  scene.Color
	Alpha  float64
}

type Text struct {
	S     string
	At    Point
	Color scene.Color
}

// DisplayList is one flattened frame.
type DisplayList struct {
	Generation uint64
	Camera     Camera

	Segments  []Segment
	Triangles []Triangle
	Dots      []Dot
	Texts     []Text
}

// Len is the total number of drawing commands.
func (d *DisplayList) Len() int {
	return len(d.Segments) + len(d.Triangles) + len(d.Dots) + len(d.Texts)
}

func lineWidth(k scene.Kind) float64 {
	if k == scene.KindAxis {
		return AxisWidth
	}
	return LineWidth
}

// Flatten projects sc through cam.
// Translucent lines (grids, breakdown) are sorted back to front and drawn
// before opaque ones.
func Flatten(sc *scene.Scene, cam Camera) *DisplayList {
	proj := cam.Projector()
	pt := func(p vector.Vec3) (Point, float64) {
		x, y, z := proj(p)
		return Point{x, y}, z
	}
	seg := func(l scene.Line, width float64) Segment {
		a, za := pt(l.From)
		b, zb := pt(l.To)
		return Segment{A: a, B: b, Color: l.Color, Alpha: l.Opacity, Width: width, depth: (za + zb) / 2}
	}

	d := &DisplayList{Generation: sc.Generation, Camera: cam}

	var translucent, opaque []Segment
	for _, g := range sc.Grids {
		for _, l := range g.Lines() {
			translucent = append(translucent, seg(l, LineWidth))
		}
	}
	for _, l := range sc.Lines {
		s := seg(l, lineWidth(l.Kind))
		if l.Opacity < 1 {
			translucent = append(translucent, s)
		} else {
			opaque = append(opaque, s)
		}
	}
	sort.SliceStable(translucent, func(i, j int) bool { return translucent[i].depth > translucent[j].depth })
	d.Segments = append(translucent, opaque...)

	ppu := cam.PixelsPerUnit()
	for _, a := range sc.Arrows {
		origin, _ := pt(a.Origin)
		if a.Degenerate {
			d.Dots = append(d.Dots, Dot{At: origin, Radius: DotRadius, Color: a.Color, Alpha: 1})
			continue
		}
		base, _ := pt(a.ShaftEnd())
		tip, _ := pt(a.Tip())
		d.Segments = append(d.Segments, Segment{A: origin, B: base, Color: a.Color, Alpha: 1, Width: ShaftWidth})

		dx, dy := tip.X-base.X, tip.Y-base.Y
		n := math.Hypot(dx, dy)
		if n < 1 {
			// head points at the eye
			d.Dots = append(d.Dots, Dot{At: tip, Radius: math.Max(DotRadius, a.HeadWidth/2*ppu), Color: a.Color, Alpha: 1})
			continue
		}
		hw := a.HeadWidth / 2 * ppu
		nx, ny := -dy/n*hw, dx/n*hw
		d.Triangles = append(d.Triangles, Triangle{
			P:     [3]Point{tip, {base.X + nx, base.Y + ny}, {base.X - nx, base.Y - ny}},
			Color: a.Color,
			Alpha: 1,
		})
	}

	for _, l := range sc.Labels {
		p, _ := pt(l.At)
		d.Texts = append(d.Texts, Text{S: l.Text, At: p, Color: l.Color})
	}
	return d
}

// Stage holds the display list currently shown by a backend.
type Stage struct {
	cur      *DisplayList
	released uint64
}

// Sync returns the display list for sc seen through cam, rebuilding it
// only when the scene generation or the camera changed. The previous list
// is dropped wholesale.
func (s *Stage) Sync(sc *scene.Scene, cam Camera) *DisplayList {
	if s.cur != nil && s.cur.Generation == sc.Generation && s.cur.Camera == cam {
		return s.cur
	}
	if s.cur != nil {
		s.released++
	}
	s.cur = Flatten(sc, cam)
	return s.cur
}

// Current is the list last returned by Sync, or nil.
func (s *Stage) Current() *DisplayList { return s.cur }

// Released counts display lists replaced so far.
func (s *Stage) Released() uint64 { return s.released }
