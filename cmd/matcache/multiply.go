package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanBrykalov/matcache/matrix"
)

func newMultiplyCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "multiply A B",
		Short: "Multiply two matrix dumps through the product cache",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			left, err := matrix.Load(args[0])
			if err != nil {
				return err
			}
			right, err := matrix.Load(args[1])
			if err != nil {
				return err
			}

			m := a.multiplier()
			defer m.Close()
			p, err := m.Multiply(cmd.Context(), left, right)
			if err != nil {
				return err
			}
			if out != "" {
				if err := p.Save(out); err != nil {
					return err
				}
				a.logger.Info("product saved", "path", out)
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), p)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "save the product to this file instead of printing it")
	return cmd
}
