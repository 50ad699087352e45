package matrix

import "fmt"

// Arithmetic is the operator capability of a matrix value.
// Implementations must not modify the receiver or the operand.
type Arithmetic interface {
	// Add returns the elementwise sum.
	Add(other *Matrix) (*Matrix, error)
	// MulElem returns the elementwise (Hadamard) product.
	MulElem(other *Matrix) (*Matrix, error)
	// MatMul returns the matrix product.
	MatMul(other *Matrix) (*Matrix, error)
}

// Add returns m + other elementwise.
// Errors: ErrType for a nil operand, ErrShape if shapes differ.
func (m *Matrix) Add(other *Matrix) (*Matrix, error) {
	if err := sameShape("Add", m, other); err != nil {
		return nil, err
	}
	out := alloc(m.r, m.c)
	for k := range m.data {
		out.data[k] = m.data[k].Add(other.data[k])
	}
	return out, nil
}

// MulElem returns m * other elementwise.
// Errors: ErrType for a nil operand, ErrShape if shapes differ.
func (m *Matrix) MulElem(other *Matrix) (*Matrix, error) {
	if err := sameShape("MulElem", m, other); err != nil {
		return nil, err
	}
	out := alloc(m.r, m.c)
	for k := range m.data {
		out.data[k] = m.data[k].Mul(other.data[k])
	}
	return out, nil
}

// MatMul returns the (m.Rows × other.Cols) product m·other. Each element is
// accumulated from Int(0), so an all-integer product stays integral.
// Errors: ErrType for a nil operand, ErrShape if m.Cols != other.Rows.
func (m *Matrix) MatMul(other *Matrix) (*Matrix, error) {
	if err := MulCompatible(m, other); err != nil {
		return nil, fmt.Errorf("Matrix.MatMul: %w", err)
	}
	n, k := other.c, m.c
	out := alloc(m.r, n)
	for i := 0; i < m.r; i++ {
		for j := 0; j < n; j++ {
			acc := Int(0)
			for p := 0; p < k; p++ {
				acc = acc.Add(m.data[i*k+p].Mul(other.data[p*n+j]))
			}
			out.data[i*n+j] = acc
		}
	}
	return out, nil
}

// MulCompatible checks that a·b is defined: both operands non-nil and
// a.Cols == b.Rows. Memoizing callers use it to reject a product before
// they hash or probe anything.
func MulCompatible(a, b *Matrix) error {
	if a == nil || b == nil {
		return fmt.Errorf("nil operand: %w", ErrType)
	}
	if a.c != b.r {
		return fmt.Errorf("(%d,%d)·(%d,%d): inner dimensions differ: %w", a.r, a.c, b.r, b.c, ErrShape)
	}
	return nil
}

func sameShape(op string, a, b *Matrix) error {
	if a == nil || b == nil {
		return fmt.Errorf("Matrix.%s: nil operand: %w", op, ErrType)
	}
	if a.r != b.r || a.c != b.c {
		return fmt.Errorf("Matrix.%s: (%d,%d) vs (%d,%d): %w", op, a.r, a.c, b.r, b.c, ErrShape)
	}
	return nil
}
