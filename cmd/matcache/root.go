package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/IvanBrykalov/matcache/cache"
	"github.com/IvanBrykalov/matcache/internal/config"
	"github.com/IvanBrykalov/matcache/memo"
)

// app carries state shared by the subcommands, filled in PersistentPreRunE.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "matcache",
		Short:         "Matrix arithmetic with a hash-keyed product cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = a.logLevel
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			logger, err := newLogger(cmd.ErrOrStderr(), a.logFormat, cfg.Level())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (defaults are used when empty)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "auto", "log format: auto, text or json (auto = text on a terminal)")

	root.AddCommand(
		newArtifactsCmd(a),
		newHashCmd(a),
		newMultiplyCmd(a),
		newCollideCmd(a),
	)
	return root
}

// multiplier builds a memoized multiplier from the loaded config.
func (a *app) multiplier() *memo.Multiplier {
	return memo.New(memo.Options{
		Cache:  cache.Options{Shards: a.cfg.Cache.Shards},
		Logger: a.logger,
	})
}

// newLogger builds the stderr logger. "auto" picks text for a terminal and
// JSON otherwise.
func newLogger(w io.Writer, format string, level slog.Level) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	if format == "auto" {
		format = "json"
		if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			format = "text"
		}
	}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (use auto, text or json)", format)
	}
}
