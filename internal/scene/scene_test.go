package scene

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"vecviz/internal/geometry/matrix"
	"vecviz/internal/geometry/vector"
)

func defaultInput() Input {
	v := vector.Vec3{X: 1, Y: 2, Z: 1}
	return Input{
		Vector:      v,
		Matrix:      matrix.Identity(),
		Transformed: v,
		Settings:    DefaultSettings(),
		Unit:        5,
		Length:      100,
	}
}

func TestTickCount(t *testing.T) {
	tests := []struct {
		length, spacing float64
		want            int
	}{
		{40, 1, 41},
		{10, 3, 4},
		{9.99, 1, 10},
		{9, 3, 4},
		{0.3, 0.1, 4},
		{0, 1, 1},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TickCount(tt.length, tt.spacing); got != tt.want {
			t.Errorf("TickCount(%v, %v) = %d, want %d", tt.length, tt.spacing, got, tt.want)
		}
		if tt.spacing > 0 {
			if want := int(math.Floor(tt.length/tt.spacing+1e-9)) + 1; tt.want != want {
				t.Errorf("table entry (%v, %v) disagrees with floor(L/s)+1 = %d", tt.length, tt.spacing, want)
			}
		}
	}
}

func TestAxisLength(t *testing.T) {
	if got := defaultInput().AxisLength(); got != 20 {
		t.Errorf("AxisLength() = %v, want 20", got)
	}
	// non-positive unit and length fall back to defaults
	if got := (Input{Unit: -1}).AxisLength(); got != DefaultLength/DefaultUnit {
		t.Errorf("AxisLength() with bad unit = %v", got)
	}
}

func TestAxes(t *testing.T) {
	sc := Build(defaultInput())

	axes := sc.LinesOf(KindAxis)
	want := []Line{
		{From: vector.Vec3{X: -20}, To: vector.Vec3{X: 20}, Color: ColorAxis, Opacity: 1, Kind: KindAxis},
		{From: vector.Vec3{Y: -20}, To: vector.Vec3{Y: 20}, Color: ColorAxis, Opacity: 1, Kind: KindAxis},
		{From: vector.Vec3{Z: -20}, To: vector.Vec3{Z: 20}, Color: ColorAxis, Opacity: 1, Kind: KindAxis},
	}
	if diff := cmp.Diff(want, axes); diff != "" {
		t.Errorf("axis lines mismatch (-want +got):\n%s", diff)
	}

	ticks := sc.LinesOf(KindTick)
	if got, want := len(ticks), 3*TickCount(40, 1); got != want {
		t.Fatalf("got %d ticks, want %d", got, want)
	}
	for i, tick := range ticks {
		axis := axes[i/TickCount(40, 1)]
		dir := axis.To.Sub(axis.From).Normalize()
		seg := tick.To.Sub(tick.From)
		if math.Abs(seg.Dot(dir)) > 1e-12 {
			t.Errorf("tick %d is not perpendicular to its axis: %v", i, seg)
		}
		if math.Abs(seg.Len()-2*DefaultTickHalfWidth) > 1e-12 {
			t.Errorf("tick %d has length %v", i, seg.Len())
		}
	}

	// first and last tick sit on the axis ends
	first, last := ticks[0], ticks[TickCount(40, 1)-1]
	if mid := first.From.Lerp(first.To, 0.5); !mid.ApproxEqual(vector.Vec3{X: -20}, 1e-12) {
		t.Errorf("first tick centered at %v", mid)
	}
	if mid := last.From.Lerp(last.To, 0.5); !mid.ApproxEqual(vector.Vec3{X: 20}, 1e-12) {
		t.Errorf("last tick centered at %v", mid)
	}
}

func TestTickNormalAvoidsDegenerateReference(t *testing.T) {
	n := tickNormal(vector.UnitZ, 0.1)
	if n.Len() == 0 || math.IsNaN(n.Len()) {
		t.Fatalf("tick normal for Z axis is degenerate: %v", n)
	}
	if !n.ApproxEqual(vector.Vec3{Y: 0.1}, 1e-12) {
		t.Errorf("tick normal for Z axis = %v, want (0, 0.1, 0)", n)
	}
	if got := tickNormal(vector.UnitX, 0.1); !got.ApproxEqual(vector.Vec3{Y: -0.1}, 1e-12) {
		t.Errorf("tick normal for X axis = %v, want (0, -0.1, 0)", got)
	}
}

func TestGrids(t *testing.T) {
	in := defaultInput()
	in.Settings = Settings{Grid: true}
	sc := Build(in)
	if len(sc.Grids) != 3 {
		t.Fatalf("got %d grids, want 3", len(sc.Grids))
	}
	planes := map[Plane]bool{}
	for _, g := range sc.Grids {
		planes[g.Plane] = true
		if g.Size != 40 || g.Divisions != 40 {
			t.Errorf("grid %s: size %v divisions %d, want 40/40", g.Plane, g.Size, g.Divisions)
		}
		if g.Opacity != GridOpacity || g.Center != vector.Zero {
			t.Errorf("grid %s: opacity %v center %v", g.Plane, g.Opacity, g.Center)
		}
		lines := g.Lines()
		if len(lines) != 82 {
			t.Errorf("grid %s expands to %d lines, want 82", g.Plane, len(lines))
		}
		n := g.Plane.Normal()
		for _, l := range lines {
			if l.From.Dot(n) != 0 || l.To.Dot(n) != 0 {
				t.Fatalf("grid %s line %v leaves its plane", g.Plane, l)
			}
		}
	}
	for _, p := range []Plane{PlaneXY, PlaneYZ, PlaneXZ} {
		if !planes[p] {
			t.Errorf("missing grid in plane %s", p)
		}
	}
	if got := sc.LinesOf(KindTransformedGrid); len(got) != 0 {
		t.Errorf("transformed grid generated while disabled: %d lines", len(got))
	}
}

func TestTransformedGrid(t *testing.T) {
	in := defaultInput()
	in.Settings = Settings{TransformedGrid: true}
	in.Matrix = matrix.Diag(2, 1, 1)
	sc := Build(in)

	lines := sc.LinesOf(KindTransformedGrid)
	if len(lines) != 3*82 {
		t.Fatalf("got %d transformed grid lines, want %d", len(lines), 3*82)
	}
	maxX := 0.0
	for _, l := range lines {
		maxX = math.Max(maxX, math.Max(l.From.X, l.To.X))
		if l.Color != ColorTransformed || l.Opacity != GridOpacity {
			t.Fatalf("unexpected styling %v", l)
		}
	}
	if maxX != 40 {
		t.Errorf("x extent of transformed grid = %v, want 40", maxX)
	}
}

func TestArrows(t *testing.T) {
	in := defaultInput()
	in.Vector = vector.Vec3{X: 3, Y: 4}
	in.Transformed = vector.Vec3{X: 6, Y: 8}
	sc := Build(in)

	v, ok := sc.Arrow("v")
	if !ok {
		t.Fatal("missing arrow v")
	}
	if v.Length != 5 || !v.Dir.ApproxEqual(vector.Vec3{X: 0.6, Y: 0.8}, 1e-12) || v.Color != ColorVector {
		t.Errorf("arrow v = %+v", v)
	}
	if !v.Tip().ApproxEqual(in.Vector, 1e-12) {
		t.Errorf("arrow v tip = %v", v.Tip())
	}
	u, _ := sc.Arrow("u")
	if u.Length != 10 || u.Color != ColorTransformed {
		t.Errorf("arrow u = %+v", u)
	}
	if got := len(u.HeadLines()); got != 4 {
		t.Errorf("head lines = %d, want 4", got)
	}
}

func TestDegenerateArrow(t *testing.T) {
	a := NewArrow("v", vector.Zero, ColorVector)
	if !a.Degenerate || a.Length != 0 || a.Dir != FallbackDirection {
		t.Errorf("zero arrow = %+v", a)
	}
	if a.HeadLines() != nil {
		t.Error("degenerate arrow has a head")
	}
	if a.Tip() != vector.Zero {
		t.Errorf("degenerate tip = %v", a.Tip())
	}

	short := NewArrow("s", vector.Vec3{X: 0.15}, ColorVector)
	if short.HeadLength != 0.15 || short.ShaftEnd() != vector.Zero {
		t.Errorf("short arrow head not clamped: %+v", short)
	}
}

func TestLargeArrow(t *testing.T) {
	a := NewArrow("v", vector.Vec3{X: 1e200}, ColorVector)
	if a.Degenerate || a.Dir != vector.UnitX || a.Length != 1e200 {
		t.Errorf("large arrow = %+v", a)
	}

	b := NewArrow("u", vector.Vec3{X: 3e200, Y: 4e200}, ColorTransformed)
	if b.Degenerate || !b.Dir.ApproxEqual(vector.Vec3{X: 0.6, Y: 0.8}, 1e-12) {
		t.Errorf("large arrow dir = %+v", b)
	}
	if math.Abs(b.Length-5e200) > 1e188 {
		t.Errorf("large arrow length = %v, want 5e200", b.Length)
	}
}

func TestBreakdownPath(t *testing.T) {
	v := vector.Vec3{X: 1, Y: 2, Z: 3}
	got := BreakdownPath(v)
	want := []Line{
		{From: vector.Zero, To: vector.Vec3{X: 1}},
		{From: vector.Vec3{X: 1}, To: vector.Vec3{X: 1, Y: 2}},
		{From: vector.Vec3{X: 1, Y: 2}, To: v},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Line{}, "Color", "Opacity", "Kind")); diff != "" {
		t.Errorf("BreakdownPath mismatch (-want +got):\n%s", diff)
	}
	for _, l := range got {
		if l.Opacity != BreakdownOpacity || l.Kind != KindBreakdown {
			t.Errorf("unexpected styling %+v", l)
		}
	}

	in := defaultInput()
	in.Settings = Settings{Breakdown: true}
	if n := len(Build(in).LinesOf(KindBreakdown)); n != 6 {
		t.Errorf("breakdown lines = %d, want 6", n)
	}
	in.Settings.Breakdown = false
	if n := len(Build(in).LinesOf(KindBreakdown)); n != 0 {
		t.Errorf("breakdown lines when disabled = %d", n)
	}
}

func TestLabels(t *testing.T) {
	in := defaultInput()
	in.Transformed = vector.Vec3{X: 2, Y: 4, Z: 2}
	sc := Build(in)
	want := []Label{
		{Text: "X", At: vector.Vec3{X: 20.5}, Color: ColorLabel},
		{Text: "Y", At: vector.Vec3{Y: 20.5}, Color: ColorLabel},
		{Text: "Z", At: vector.Vec3{Z: 20.5}, Color: ColorLabel},
		{Text: "v", At: vector.Vec3{X: 0.5, Y: 1, Z: 0.5}, Color: ColorLabel},
		{Text: "u", At: vector.Vec3{X: 1, Y: 2, Z: 1}, Color: ColorLabel},
	}
	if diff := cmp.Diff(want, sc.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	in.Settings.Labels = false
	if got := Build(in).Labels; len(got) != 0 {
		t.Errorf("labels when disabled = %v", got)
	}
}

func TestSettingsAreIndependent(t *testing.T) {
	in := defaultInput()
	in.Settings = Settings{}
	sc := Build(in)
	if len(sc.Grids) != 0 || len(sc.Labels) != 0 || len(sc.LinesOf(KindBreakdown)) != 0 || len(sc.LinesOf(KindTransformedGrid)) != 0 {
		t.Errorf("optional layers present with all settings off: %v", sc.Stats())
	}
	if len(sc.Arrows) != 2 || len(sc.LinesOf(KindAxis)) != 3 {
		t.Errorf("mandatory layers missing: %v", sc.Stats())
	}
}

func TestChain(t *testing.T) {
	c := &Chain{Layers: []Layer{&Chain{}, Vectors{}}}
	sc := &Scene{}
	c.Apply(defaultInput(), sc)
	if len(sc.Arrows) != 2 || len(sc.Lines) != 0 {
		t.Errorf("chain produced %v", sc.Stats())
	}
}

func TestAutoScale(t *testing.T) {
	tests := []struct {
		v, u         vector.Vec3
		unit, length float64
	}{
		{vector.Vec3{X: 1, Y: 2, Z: 1}, vector.Vec3{X: 1, Y: 2, Z: 1}, 1, 10},
		{vector.Vec3{X: -30, Y: 5}, vector.Vec3{X: 90}, 12, 120},
		{vector.Vec3{X: 250}, vector.Vec3{}, 25, 250},
		{vector.Zero, vector.Zero, 0, 0},
	}
	for _, tt := range tests {
		unit, length := AutoScale(tt.v, tt.u)
		if unit != tt.unit || length != tt.length {
			t.Errorf("AutoScale(%v, %v) = (%v, %v), want (%v, %v)", tt.v, tt.u, unit, length, tt.unit, tt.length)
		}
	}
}

func TestColor(t *testing.T) {
	if got := ColorTransformed.String(); got != "#ff0000" {
		t.Errorf("String() = %q", got)
	}
	r, g, b := ColorVector.RGB()
	if r != 0 || g != 1 || b != 1 {
		t.Errorf("RGB() = %v %v %v", r, g, b)
	}
	if c := ColorGrid.NRGBA(0.5); c.A != 128 || c.R != 0x80 {
		t.Errorf("NRGBA() = %+v", c)
	}
}
