package matrix

import "fmt"

// Hasher maps a matrix to an integer cache key. Hashers are not identity
// functions: distinct matrices may share a hash, and callers keying a cache
// on it accept that.
type Hasher interface {
	Hash(m *Matrix) (int64, error)
}

// HasherFunc adapts a plain function to Hasher.
type HasherFunc func(m *Matrix) (int64, error)

// Hash calls f(m).
func (f HasherFunc) Hash(m *Matrix) (int64, error) { return f(m) }

// RowXOR folds each row with bitwise XOR and sums the row digests with
// ordinary (wrapping) addition.
//
// Any reordering inside a row, or any change that keeps every row's XOR,
// produces the same hash: [[0 1] [2 3]] and [[1 0] [3 2]] both hash to 2.
// XOR is only defined for integers, so a Float element is an ErrType.
type RowXOR struct{}

var (
	_ Hasher = RowXOR{}
	_ Hasher = HasherFunc(nil)
)

// Hash implements Hasher.
func (RowXOR) Hash(m *Matrix) (int64, error) {
	if m == nil {
		return 0, fmt.Errorf("RowXOR.Hash: nil matrix: %w", ErrType)
	}
	if m.c == 0 {
		return 0, fmt.Errorf("RowXOR.Hash: row 0: %w", ErrEmptyRow)
	}
	var sum int64
	for i := 0; i < m.r; i++ {
		row := m.data[i*m.c : (i+1)*m.c]
		var digest int64
		for j, v := range row {
			if !v.IsInt() {
				return 0, fmt.Errorf("RowXOR.Hash: xor of float %s at (%d,%d): %w", v, i, j, ErrType)
			}
			digest ^= v.i
		}
		sum += digest
	}
	return sum, nil
}

// Hash returns RowXOR{}.Hash(m).
func (m *Matrix) Hash() (int64, error) { return RowXOR{}.Hash(m) }
