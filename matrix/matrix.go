package matrix

import (
	"fmt"
)

// Matrix is an immutable row-major table of Numbers.
//
// Every operation returns a fresh *Matrix; neither the receiver nor the
// operand is modified, and accessors hand out copies. A *Matrix is therefore
// safe to share between goroutines once constructed.
type Matrix struct {
	r, c int
	data []Number // len == r*c, offset i*c + j
}

// Real is the set of Go element types FromSlices accepts.
type Real interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Compile-time capability checks.
var (
	_ Arithmetic = (*Matrix)(nil)
	_ Saver      = (*Matrix)(nil)
)

// New builds a matrix from a rectangular table, copying it.
// Errors: ErrShape for an empty or ragged table.
func New(table [][]Number) (*Matrix, error) {
	r, c, err := tableShape(len(table), func(i int) int { return len(table[i]) })
	if err != nil {
		return nil, fmt.Errorf("matrix.New: %w", err)
	}
	m := alloc(r, c)
	for i, row := range table {
		copy(m.data[i*c:(i+1)*c], row)
	}
	return m, nil
}

// FromSlices builds a matrix from a typed table. Integer kinds become Int
// elements and float kinds become Float elements.
func FromSlices[T Real](table [][]T) (*Matrix, error) {
	r, c, err := tableShape(len(table), func(i int) int { return len(table[i]) })
	if err != nil {
		return nil, fmt.Errorf("matrix.FromSlices: %w", err)
	}
	m := alloc(r, c)
	for i, row := range table {
		for j, v := range row {
			m.data[i*c+j] = numberOf(v)
		}
	}
	return m, nil
}

// FromTable builds a matrix from dynamically typed data, typically the
// output of a decoder: [][]any, []any of rows, [][]int, [][]int64,
// [][]float64, [][]Number, or another *Matrix (shape and data are copied).
//
// Errors: ErrType when table is not a sequence of sequences or an element
// is not numeric (bool is rejected); ErrShape when rows differ in length.
func FromTable(table any) (*Matrix, error) {
	switch t := table.(type) {
	case *Matrix:
		if t == nil {
			return nil, fmt.Errorf("matrix.FromTable: nil *Matrix: %w", ErrType)
		}
		return t.Clone(), nil
	case [][]Number:
		return New(t)
	case [][]int:
		return FromSlices(t)
	case [][]int64:
		return FromSlices(t)
	case [][]float64:
		return FromSlices(t)
	case [][]any:
		rows := make([]any, len(t))
		for i := range t {
			rows[i] = t[i]
		}
		return fromRows(rows)
	case []any:
		return fromRows(t)
	default:
		return nil, fmt.Errorf("matrix.FromTable: want a table of rows, got %T: %w", table, ErrType)
	}
}

func fromRows(rows []any) (*Matrix, error) {
	table := make([][]Number, len(rows))
	for i, raw := range rows {
		row, err := rowOf(raw)
		if err != nil {
			return nil, fmt.Errorf("matrix.FromTable: row %d: %w", i, err)
		}
		table[i] = row
	}
	return New(table)
}

// rowOf converts one dynamically typed row.
func rowOf(raw any) ([]Number, error) {
	switch r := raw.(type) {
	case []Number:
		return r, nil
	case []int:
		return convertRow(r), nil
	case []int64:
		return convertRow(r), nil
	case []float64:
		return convertRow(r), nil
	case []any:
		out := make([]Number, len(r))
		for j, v := range r {
			n, err := scalarOf(v)
			if err != nil {
				return nil, fmt.Errorf("column %d: %w", j, err)
			}
			out[j] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("want a row sequence, got %T: %w", raw, ErrType)
	}
}

func convertRow[T Real](row []T) []Number {
	out := make([]Number, len(row))
	for j, v := range row {
		out[j] = numberOf(v)
	}
	return out
}

// scalarOf accepts Go's numeric kinds. Unsigned values above MaxInt64 do not
// fit an Int and are rejected rather than silently wrapped.
func scalarOf(v any) (Number, error) {
	switch x := v.(type) {
	case Number:
		return x, nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint:
		if uint64(x) > 1<<63-1 {
			return Number{}, fmt.Errorf("uint %d overflows int64: %w", x, ErrType)
		}
		return Int(int64(x)), nil
	case uint64:
		if x > 1<<63-1 {
			return Number{}, fmt.Errorf("uint64 %d overflows int64: %w", x, ErrType)
		}
		return Int(int64(x)), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	default:
		return Number{}, fmt.Errorf("element %v of type %T is not numeric: %w", v, v, ErrType)
	}
}

func numberOf[T Real](v T) Number {
	if isFloatKind(v) {
		return Float(float64(v))
	}
	return Int(int64(v))
}

// isFloatKind reports whether T is a float kind: 0.5 only survives the
// conversion to T when T can hold fractions.
func isFloatKind[T Real](T) bool {
	half := 0.5
	return float64(T(half)) != 0
}

// tableShape validates a table given its row count and row-length accessor.
func tableShape(rows int, rowLen func(int) int) (int, int, error) {
	if rows == 0 {
		return 0, 0, fmt.Errorf("empty table: %w", ErrShape)
	}
	cols := rowLen(0)
	for i := 1; i < rows; i++ {
		if n := rowLen(i); n != cols {
			return 0, 0, fmt.Errorf("row %d has %d elements, want %d: %w", i, n, cols, ErrShape)
		}
	}
	return rows, cols, nil
}

func alloc(r, c int) *Matrix {
	return &Matrix{r: r, c: c, data: make([]Number, r*c)}
}

// ---- accessors ----

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.c }

// Shape returns (rows, cols).
func (m *Matrix) Shape() (int, int) { return m.r, m.c }

// At returns the element at (i, j).
func (m *Matrix) At(i, j int) (Number, error) {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		return Number{}, fmt.Errorf("Matrix.At(%d,%d): %w", i, j, ErrOutOfRange)
	}
	return m.data[i*m.c+j], nil
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) ([]Number, error) {
	if i < 0 || i >= m.r {
		return nil, fmt.Errorf("Matrix.Row(%d): %w", i, ErrOutOfRange)
	}
	out := make([]Number, m.c)
	copy(out, m.data[i*m.c:(i+1)*m.c])
	return out, nil
}

// Table returns a deep copy of the contents as a row slice.
func (m *Matrix) Table() [][]Number {
	out := make([][]Number, m.r)
	for i := range out {
		out[i] = make([]Number, m.c)
		copy(out[i], m.data[i*m.c:(i+1)*m.c])
	}
	return out
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	cp := alloc(m.r, m.c)
	copy(cp.data, m.data)
	return cp
}

// Equal reports whether both matrices have the same shape and numerically
// equal elements. A nil matrix equals only another nil matrix.
func (m *Matrix) Equal(o *Matrix) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.r != o.r || m.c != o.c {
		return false
	}
	for k := range m.data {
		if !m.data[k].Equal(o.data[k]) {
			return false
		}
	}
	return true
}
