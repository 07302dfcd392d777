package input

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vecviz/internal/geometry/matrix"
	"vecviz/internal/geometry/vector"
)

func TestParseVector(t *testing.T) {
	tests := []struct {
		in   string
		want vector.Vec3
	}{
		{"1,2,1", vector.Vec3{X: 1, Y: 2, Z: 1}},
		{" -1.5 , 2e2,\t0.25 ", vector.Vec3{X: -1.5, Y: 200, Z: 0.25}},
		{"１，２，３", vector.Vec3{X: 1, Y: 2, Z: 3}},
		// lenient fallbacks: unreadable or missing values are zero
		{"a,2,", vector.Vec3{Y: 2}},
		{"4", vector.Vec3{X: 4}},
		{"1,2,3,4", vector.Vec3{X: 1, Y: 2, Z: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseVector(tt.in)); diff != "" {
				t.Errorf("ParseVector(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParseMatrix(t *testing.T) {
	got := ParseMatrix("1,2,3,4,5,6,7,8,9")
	want := matrix.Mat3{
		M11: 1, M12: 2, M13: 3,
		M21: 4, M22: 5, M23: 6,
		M31: 7, M32: 8, M33: 9,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseMatrix mismatch (-want +got):\n%s", diff)
	}

	if got := ParseMatrix("1,0,0,0,1,0,0,0,1"); !got.IsIdentity() {
		t.Errorf("ParseMatrix(identity text) = %+v", got)
	}
	if got := ParseMatrix("x,,"); got != matrix.Zero() {
		t.Errorf("ParseMatrix(garbage) = %+v, want zero matrix", got)
	}
}

func TestValidVector(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1,2,1", true},
		{" 1 , 2 , 3 ", true},
		{"-0.5,+3,1e-3", true},
		{"１，２，３", true},
		{"1,2", false},
		{"1,2,3,4", false},
		{"", false},
		{"1,,3", true},
		{",,", true},
		{"1, ,3", false},
		{"1,a,3", false},
		{"1,2,3x", false},
		{"0x10,1,1", false},
		{"Inf,1,1", false},
		{"NaN,1,1", false},
		{"1e400,1,1", false},
		{"1_000,1,1", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ValidVector(tt.in); got != tt.want {
				t.Errorf("ValidVector(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidMatrix(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1,0,0,0,1,0,0,0,1", true},
		{"1.5, -2, 3, 4, 5, 6, 7, 8, 9", true},
		{"1,0,0,0,1,0,0,0", false},
		{"1,0,0,0,1,0,0,0,1,0", false},
		{"a,0,0,0,1,0,0,0,1", false},
		{"1,0,0,0,1,0,0,0,", true},
		{"1,0,0,0,1,0,0,0, ", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ValidMatrix(tt.in); got != tt.want {
				t.Errorf("ValidMatrix(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCheckReportsViolation(t *testing.T) {
	err := CheckVector("1,2")
	if !errors.Is(err, ErrTokenCount) {
		t.Fatalf("CheckVector(\"1,2\") = %v, want ErrTokenCount", err)
	}
	var ie *Error
	if !errors.As(err, &ie) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if ie.Field != FieldVector || ie.Want != 3 || ie.Got != 2 {
		t.Errorf("unexpected error fields: %+v", ie)
	}

	// count is checked before numeric validity
	if err := CheckMatrix("a,b"); !errors.Is(err, ErrTokenCount) {
		t.Errorf("CheckMatrix(\"a,b\") = %v, want ErrTokenCount", err)
	}

	err = CheckMatrix("1,0,0,0,1,0,0,q,1")
	if !errors.Is(err, ErrNotNumeric) {
		t.Fatalf("CheckMatrix = %v, want ErrNotNumeric", err)
	}
	if !errors.As(err, &ie) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if ie.Index != 7 || ie.Token != "q" || ie.Field != FieldMatrix {
		t.Errorf("unexpected error fields: %+v", ie)
	}
	want := "Invalid matrix input. Please enter 9 numerical values separated by commas."
	if ie.Message() != want {
		t.Errorf("Message() = %q, want %q", ie.Message(), want)
	}
	if ie.Detail() != `value 8 ("q") is not a number` {
		t.Errorf("Detail() = %q", ie.Detail())
	}

	if err := CheckVector("3,4,0"); err != nil {
		t.Errorf("CheckVector(valid) = %v", err)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	v := vector.Vec3{X: 1, Y: -2.5, Z: 1e-7}
	s := FormatVector(v)
	if !ValidVector(s) {
		t.Fatalf("FormatVector produced invalid text %q", s)
	}
	if got := ParseVector(s); got != v {
		t.Errorf("ParseVector(FormatVector(v)) = %v, want %v", got, v)
	}
	if got := FormatMatrix(matrix.Identity()); got != "1,0,0,0,1,0,0,0,1" {
		t.Errorf("FormatMatrix(identity) = %q", got)
	}
}
