package matrix

import "errors"

// Sentinel errors returned by this package. Every message carries the
// "matrix:" prefix; operations wrap them with call-site context, so callers
// must match with errors.Is.
var (
	// ErrType reports a non-numeric element, a table that is not a sequence
	// of sequences, a nil operand, or XOR requested on a float element.
	ErrType = errors.New("matrix: invalid type")

	// ErrShape reports ragged or empty tables and incompatible operand shapes.
	ErrShape = errors.New("matrix: shape mismatch")

	// ErrEmptyRow is returned by hashers when a row has no elements to fold.
	ErrEmptyRow = errors.New("matrix: empty row")

	// ErrOutOfRange reports a row or column index outside the matrix bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")
)
