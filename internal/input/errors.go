package input

import (
	"errors"
	"fmt"
)

// Field names the text field an input came from.
type Field string

const (
	FieldNone   Field = ""
	FieldVector Field = "vector"
	FieldMatrix Field = "matrix"
)

// Arity returns the number of comma-separated values the field expects.
func (f Field) Arity() int {
	switch f {
	case FieldVector:
		return VectorArity
	case FieldMatrix:
		return MatrixArity
	}
	return 0
}

var (
	// ErrTokenCount means the text did not split into the expected number of values.
	ErrTokenCount = errors.New("wrong number of values")
	// ErrNotNumeric means at least one value is not a finite decimal number.
	ErrNotNumeric = errors.New("non-numeric value")
)

// Error describes why a vector or matrix text was rejected.
type Error struct {
	Field Field
	Want  int // expected number of values
	Got   int // number of values found

	// Index and Token locate the first non-numeric value; Index is -1 for
	// count errors.
	Index int
	Token string

	Err error
}

func (e *Error) Error() string {
	if errors.Is(e.Err, ErrTokenCount) {
		return fmt.Sprintf("%s input: %v: want %d, got %d", e.Field, e.Err, e.Want, e.Got)
	}
	return fmt.Sprintf("%s input: %v %q at position %d", e.Field, e.Err, e.Token, e.Index+1)
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns the user-facing notification text for the rejected field.
func (e *Error) Message() string {
	return fmt.Sprintf("Invalid %s input. Please enter %d numerical values separated by commas.", e.Field, e.Want)
}

// Detail names the specific violation for display next to Message.
func (e *Error) Detail() string {
	if errors.Is(e.Err, ErrTokenCount) {
		return fmt.Sprintf("found %d values", e.Got)
	}
	if e.Token == "" {
		return fmt.Sprintf("value %d is empty", e.Index+1)
	}
	return fmt.Sprintf("value %d (%q) is not a number", e.Index+1, e.Token)
}
