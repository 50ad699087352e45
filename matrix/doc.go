// Package matrix implements a small numeric matrix value type and the
// hashing policy used to key memoized products.
//
// Matrices are immutable: Add, MulElem and MatMul return new values and
// accessors return copies. Elements are Numbers, a tagged int64/float64, so
// integer tables stay exact while float tables are still accepted.
//
// Capabilities are split into small interfaces instead of a type
// hierarchy:
//
//   - Arithmetic: Add, MulElem, MatMul
//   - Hasher:     integer cache key (RowXOR is the default policy)
//   - Saver:      text artifact on disk (see Text for the format)
//
// Basic usage
//
//	a, _ := matrix.FromSlices([][]int{{0, 1}, {2, 3}})
//	b, _ := matrix.FromSlices([][]int{{1, 1}, {1, 1}})
//	p, err := a.MatMul(b)
//	if err != nil {
//	    // errors.Is(err, matrix.ErrShape) on incompatible operands
//	}
//	fmt.Println(p) // [1 1]\n[5 5]
//
// RowXOR is intentionally weak: it is a cache key, not an identity. Two
// different matrices whose rows XOR to the same digests hash identically.
package matrix
