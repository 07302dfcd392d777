package matrix

import (
	"math/rand"
	"testing"

	"vecviz/internal/geometry/vector"
)

func randVec(r *rand.Rand) vector.Vec3 {
	return vector.Vec3{X: r.Float64()*20 - 10, Y: r.Float64()*20 - 10, Z: r.Float64()*20 - 10}
}

func randMat(r *rand.Rand) Mat3 {
	var v [9]float64
	for i := range v {
		v[i] = r.Float64()*20 - 10
	}
	return FromValues(v)
}

func TestIdentityLeavesVectorUnchanged(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		v := randVec(r)
		if got := Transform(v, Identity()); got != v {
			t.Fatalf("Transform(%v, I) = %v, want %v", v, got, v)
		}
	}
}

func TestZeroMatrixYieldsZeroVector(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		v := randVec(r)
		if got := Transform(v, Zero()); !got.IsZero() {
			t.Fatalf("Transform(%v, 0) = %v, want zero", v, got)
		}
	}
}

func TestLinearity(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		m := randMat(r)
		a, b := randVec(r), randVec(r)
		sum := Transform(a, m).Add(Transform(b, m))
		whole := Transform(a.Add(b), m)
		if !sum.ApproxEqual(whole, 1e-9) {
			t.Fatalf("M·a + M·b = %v, M·(a+b) = %v", sum, whole)
		}
	}
}

func TestTransform(t *testing.T) {
	tests := []struct {
		name string
		v    vector.Vec3
		m    Mat3
		want vector.Vec3
	}{
		{
			name: "uniform scale",
			v:    vector.Vec3{X: 3, Y: 4},
			m:    Diag(2, 2, 2),
			want: vector.Vec3{X: 6, Y: 8},
		},
		{
			name: "row major",
			v:    vector.Vec3{X: 1, Y: 1, Z: 1},
			m:    FromValues([9]float64{1, 2, 3, 4, 5, 6, 7, 8, 9}),
			want: vector.Vec3{X: 6, Y: 15, Z: 24},
		},
		{
			name: "rotate x onto y",
			v:    vector.Vec3{X: 1},
			m:    FromValues([9]float64{0, -1, 0, 1, 0, 0, 0, 0, 1}),
			want: vector.Vec3{Y: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Transform(tt.v, tt.m); got != tt.want {
				t.Errorf("Transform() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValuesRoundTrip(t *testing.T) {
	in := [9]float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	m := FromValues(in)
	if m.M12 != 2 || m.M21 != 4 || m.M33 != 9 {
		t.Errorf("FromValues() placed entries wrongly: %+v", m)
	}
	if got := m.Values(); got != in {
		t.Errorf("Values() = %v, want %v", got, in)
	}
	if !Identity().IsIdentity() {
		t.Error("Identity().IsIdentity() = false")
	}
}
