// Package artifacts generates the text dumps of the matrix exercise: the
// elementwise and matrix products of two random operands, and a worked
// product cache collision.
package artifacts

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/IvanBrykalov/matcache/matrix"
	"github.com/IvanBrykalov/matcache/memo"
)

// ErrNoCollision is returned when no attempt produced colliding operands
// with different raw products.
var ErrNoCollision = errors.New("artifacts: no collision found")

// Random returns a rows×cols matrix of integers drawn from [0, maxValue).
// rows, cols and maxValue must be positive.
func Random(r *rand.Rand, rows, cols, maxValue int) *matrix.Matrix {
	table := make([][]int, rows)
	for i := range table {
		table[i] = make([]int, cols)
		for j := range table[i] {
			table[i][j] = r.Intn(maxValue)
		}
	}
	m, err := matrix.FromSlices(table)
	if err != nil {
		// rows, cols > 0 always yield a rectangular table
		panic(err)
	}
	return m
}

// FlipLowBit returns m with the lowest bit of every element flipped
// (even values +1, odd values -1). For an even number of columns every row
// keeps its XOR, so the result collides with m under RowXOR.
func FlipLowBit(m *matrix.Matrix) (*matrix.Matrix, error) {
	table := m.Table()
	for i, row := range table {
		for j, v := range row {
			if !v.IsInt() {
				return nil, fmt.Errorf("FlipLowBit(%d,%d): %w", i, j, matrix.ErrType)
			}
			table[i][j] = matrix.Int(v.Int64() ^ 1)
		}
	}
	return matrix.New(table)
}

// Arithmetic holds the products of two operands.
type Arithmetic struct {
	A, B    *matrix.Matrix
	Plus    *matrix.Matrix
	Mul     *matrix.Matrix
	MatProd *matrix.Matrix
}

// NewArithmetic computes A+B, A*B (elementwise) and A@B.
func NewArithmetic(a, b *matrix.Matrix) (Arithmetic, error) {
	res := Arithmetic{A: a, B: b}
	var err error
	if res.Plus, err = a.Add(b); err != nil {
		return Arithmetic{}, err
	}
	if res.Mul, err = a.MulElem(b); err != nil {
		return Arithmetic{}, err
	}
	if res.MatProd, err = a.MatMul(b); err != nil {
		return Arithmetic{}, err
	}
	return res, nil
}

// Collision is a worked example of a product cache collision: C collides
// with A, D equals B, the raw products differ, yet the memoized C@D is the
// object cached for A@B.
type Collision struct {
	A, B, C, D *matrix.Matrix
	// AB is the memoized A@B.
	AB *matrix.Matrix
	// CD is the raw (unmemoized) C@D.
	CD *matrix.Matrix
	// MemoCD is the memoized C@D; with a collision it is AB itself.
	MemoCD *matrix.Matrix

	HashA, HashC   int64
	HashAB, HashCD int64
	Attempt        int
}

// Shared reports whether the memoized C@D is the cached A@B object.
func (c Collision) Shared() bool { return c.MemoCD == c.AB }

// FindCollision draws operands from r until RowXOR(A) == RowXOR(C), A != C
// and A@B != C@D, then runs both products through m.
func FindCollision(ctx context.Context, r *rand.Rand, m *memo.Multiplier, size, maxValue, attempts int) (Collision, error) {
	for attempt := 1; attempt <= attempts; attempt++ {
		a := Random(r, size, size, maxValue)
		b := Random(r, size, size, maxValue)
		c, err := FlipLowBit(a)
		if err != nil {
			return Collision{}, err
		}
		d := b

		ha, err := a.Hash()
		if err != nil {
			return Collision{}, err
		}
		hc, err := c.Hash()
		if err != nil {
			return Collision{}, err
		}
		if ha != hc || a.Equal(c) {
			continue
		}
		rawAB, err := a.MatMul(b)
		if err != nil {
			return Collision{}, err
		}
		rawCD, err := c.MatMul(d)
		if err != nil {
			return Collision{}, err
		}
		if rawAB.Equal(rawCD) {
			continue
		}

		col := Collision{A: a, B: b, C: c, D: d, CD: rawCD, HashA: ha, HashC: hc, Attempt: attempt}
		if col.AB, err = m.Multiply(ctx, a, b); err != nil {
			return Collision{}, err
		}
		if col.MemoCD, err = m.Multiply(ctx, c, d); err != nil {
			return Collision{}, err
		}
		if col.HashAB, err = col.AB.Hash(); err != nil {
			return Collision{}, err
		}
		if col.HashCD, err = rawCD.Hash(); err != nil {
			return Collision{}, err
		}
		return col, nil
	}
	return Collision{}, fmt.Errorf("%w after %d attempts (size=%d, max=%d)", ErrNoCollision, attempts, size, maxValue)
}

// WriteArithmetic saves the products under dir/easy.
func WriteArithmetic(dir string, a Arithmetic) ([]string, error) {
	return saveAll(filepath.Join(dir, "easy"), []named{
		{"matrix_plus.txt", a.Plus},
		{"matrix_mul.txt", a.Mul},
		{"matrix_matmul.txt", a.MatProd},
	})
}

// WriteCollision saves the scenario under dir/hard, including hash.txt with
// the hashes of AB and of the raw CD.
func WriteCollision(dir string, c Collision) ([]string, error) {
	hard := filepath.Join(dir, "hard")
	paths, err := saveAll(hard, []named{
		{"A.txt", c.A},
		{"B.txt", c.B},
		{"C.txt", c.C},
		{"D.txt", c.D},
		{"AB.txt", c.AB},
		{"CD.txt", c.CD},
	})
	if err != nil {
		return nil, err
	}
	hashPath := filepath.Join(hard, "hash.txt")
	body := fmt.Sprintf("A @ B: %d\nC @ D: %d", c.HashAB, c.HashCD)
	if err := os.WriteFile(hashPath, []byte(body), 0o644); err != nil {
		return nil, err
	}
	return append(paths, hashPath), nil
}

type named struct {
	file string
	m    matrix.Saver
}

func saveAll(dir string, items []named) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create the artifact directory: %w", err)
	}
	paths := make([]string, 0, len(items))
	for _, it := range items {
		p := filepath.Join(dir, it.file)
		if err := it.m.Save(p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
