package main

import (
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/IvanBrykalov/matcache/internal/artifacts"
)

func newArtifactsCmd(a *app) *cobra.Command {
	var (
		out  string
		seed int64
	)
	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "Write the arithmetic dumps and the collision scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("out") {
				cfg.OutDir = out
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			r := rand.New(rand.NewSource(cfg.Seed))

			arith, err := artifacts.NewArithmetic(
				artifacts.Random(r, cfg.Size, cfg.Size, cfg.MaxValue),
				artifacts.Random(r, cfg.Size, cfg.Size, cfg.MaxValue),
			)
			if err != nil {
				return err
			}
			paths, err := artifacts.WriteArithmetic(cfg.OutDir, arith)
			if err != nil {
				return err
			}

			m := a.multiplier()
			defer m.Close()
			col, err := artifacts.FindCollision(cmd.Context(), r, m, cfg.CollisionSize, cfg.CollisionMaxValue, cfg.CollisionAttempts)
			if err != nil {
				return err
			}
			hard, err := artifacts.WriteCollision(cfg.OutDir, col)
			if err != nil {
				return err
			}
			paths = append(paths, hard...)

			a.logger.Info("artifacts written",
				"dir", cfg.OutDir,
				"files", len(paths),
				"seed", cfg.Seed,
				"collision_attempt", col.Attempt,
				"hash_ab", col.HashAB,
				"hash_cd", col.HashCD,
			)
			w := cmd.OutOrStdout()
			for _, p := range paths {
				if _, err := w.Write([]byte(p + "\n")); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output directory (overrides out_dir)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (overrides seed)")
	return cmd
}
