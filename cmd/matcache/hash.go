package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanBrykalov/matcache/matrix"
)

func newHashCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hash FILE...",
		Short: "Print the row-XOR hash of each matrix dump",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				m, err := matrix.Load(path)
				if err != nil {
					return err
				}
				h, err := m.Hash()
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", path, h)
			}
			return nil
		},
	}
}
