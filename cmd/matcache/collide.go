package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanBrykalov/matcache/matrix"
)

// Operands of the smallest collision: C swaps the elements of each row of A.
var (
	collideA = [][]int{{0, 1}, {2, 3}}
	collideC = [][]int{{1, 0}, {3, 2}}
	collideB = [][]int{{1, 2}, {3, 4}}
)

func newCollideCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "collide",
		Short: "Show two operand pairs that share one cached product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ma, err := matrix.FromSlices(collideA)
			if err != nil {
				return err
			}
			mc, err := matrix.FromSlices(collideC)
			if err != nil {
				return err
			}
			mb, err := matrix.FromSlices(collideB)
			if err != nil {
				return err
			}

			m := a.multiplier()
			defer m.Close()
			keyAB, err := m.Key(ma, mb)
			if err != nil {
				return err
			}
			keyCB, err := m.Key(mc, mb)
			if err != nil {
				return err
			}
			rawCB, err := mc.MatMul(mb)
			if err != nil {
				return err
			}
			ab, err := m.Multiply(cmd.Context(), ma, mb)
			if err != nil {
				return err
			}
			cb, err := m.Multiply(cmd.Context(), mc, mb)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "A =\n%s\nC =\n%s\nB =\n%s\n", ma, mc, mb)
			fmt.Fprintf(w, "key(A,B) = %s\nkey(C,B) = %s\n", keyAB, keyCB)
			fmt.Fprintf(w, "memo A@B =\n%s\n", ab)
			fmt.Fprintf(w, "raw C@B =\n%s\n", rawCB)
			fmt.Fprintf(w, "memo C@B =\n%s\n", cb)
			fmt.Fprintf(w, "shared: %t\n", ab == cb)
			return nil
		},
	}
}
