// Package input turns the comma-separated vector and matrix text a user
// types into numeric values.
//
// Validation and parsing are separate steps. Check (or its boolean forms
// ValidVector and ValidMatrix) decides whether text is acceptable; the
// Parse functions trust their input and never fail, substituting 0 for any
// value they cannot read. Callers run the check first and only parse
// accepted text.
//
// Text is normalized with Unicode NFKC before splitting, so full-width
// digits and commas typed through an IME are read as their ASCII forms.
package input

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	VectorArity = 3
	MatrixArity = 9
)

// Normalize folds compatibility characters to their canonical ASCII forms.
func Normalize(s string) string { return norm.NFKC.String(s) }

func split(s string) []string { return strings.Split(Normalize(s), ",") }

// Check validates text for the given field and returns a *Error describing
// the first violation, or nil when the text is acceptable.
// The token count is checked before numeric validity. An empty token, as in
// "1,,3", is accepted and parses as 0; a whitespace-only token is rejected.
func Check(field Field, s string) error {
	want := field.Arity()
	tokens := split(s)
	if len(tokens) != want {
		return &Error{Field: field, Want: want, Got: len(tokens), Index: -1, Err: ErrTokenCount}
	}
	for i, tok := range tokens {
		if tok == "" {
			continue
		}
		if _, ok := number(tok); !ok {
			return &Error{
				Field: field,
				Want:  want,
				Got:   len(tokens),
				Index: i,
				Token: strings.TrimSpace(tok),
				Err:   ErrNotNumeric,
			}
		}
	}
	return nil
}

// CheckVector validates vector text: exactly 3 numeric values.
func CheckVector(s string) error { return Check(FieldVector, s) }

// CheckMatrix validates matrix text: exactly 9 numeric values.
func CheckMatrix(s string) error { return Check(FieldMatrix, s) }

// ValidVector reports whether s is acceptable vector text.
func ValidVector(s string) bool { return CheckVector(s) == nil }

// ValidMatrix reports whether s is acceptable matrix text.
func ValidMatrix(s string) bool { return CheckMatrix(s) == nil }

// number reads a single trimmed token as a finite decimal.
// Empty and whitespace-only tokens are not numbers.
func number(tok string) (float64, bool) {
	tok = strings.TrimSpace(tok)
	if tok == "" || !decimal(tok) {
		return 0, false
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// decimal rejects the non-decimal spellings ParseFloat accepts
// (hex mantissas, underscores, "Inf", "NaN").
func decimal(tok string) bool {
	for _, r := range tok {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '+', r == '-', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return true
}
