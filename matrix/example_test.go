package matrix_test

import (
	"errors"
	"fmt"

	"github.com/IvanBrykalov/matcache/matrix"
)

func ExampleMatrix_MatMul() {
	a, _ := matrix.FromSlices([][]int{{0, 1}, {2, 3}})
	b, _ := matrix.FromSlices([][]int{{1, 1}, {1, 1}})
	p, _ := a.MatMul(b)
	fmt.Println(p)
	// Output:
	// [1 1]
	// [5 5]
}

func ExampleRowXOR() {
	a, _ := matrix.FromSlices([][]int{{0, 1}, {2, 3}})
	c, _ := matrix.FromSlices([][]int{{1, 0}, {3, 2}})
	ha, _ := a.Hash()
	hc, _ := c.Hash()
	fmt.Println(ha, hc, a.Equal(c))
	// Output: 2 2 false
}

func ExampleFromTable() {
	_, err := matrix.FromTable([]any{[]any{1, 2}, []any{3}})
	fmt.Println(errors.Is(err, matrix.ErrShape))
	// Output: true
}
