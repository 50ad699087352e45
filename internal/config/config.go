// Package config loads the matcache command configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config drives the matcache command. Flags override loaded values.
type Config struct {
	// OutDir receives generated artifacts.
	OutDir string `yaml:"out_dir" validate:"required"`
	// Seed makes generated matrices reproducible.
	Seed int64 `yaml:"seed"`
	// Size is the side of the square matrices used for the arithmetic dumps.
	Size int `yaml:"size" validate:"min=1,max=512"`
	// MaxValue bounds generated elements to [0, MaxValue).
	MaxValue int `yaml:"max_value" validate:"min=1,max=1048576"`
	// CollisionSize is the side of the matrices in the collision scenario.
	CollisionSize int `yaml:"collision_size" validate:"min=1,max=64"`
	// CollisionMaxValue bounds elements of the collision scenario.
	CollisionMaxValue int `yaml:"collision_max_value" validate:"min=2,max=1048576"`
	// CollisionAttempts bounds how many seeds are tried to find operands
	// whose products differ.
	CollisionAttempts int `yaml:"collision_attempts" validate:"min=1,max=100000"`

	Cache CacheConfig `yaml:"cache"`

	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// CacheConfig mirrors cache.Options.
type CacheConfig struct {
	Shards int `yaml:"shards" validate:"min=0,max=256"`
}

// Default returns the configuration used when no file is given: 10x10
// operands in [0,10) and a 4x4 collision scenario in [0,4).
func Default() Config {
	return Config{
		OutDir:            "artifacts",
		Seed:              0,
		Size:              10,
		MaxValue:          10,
		CollisionSize:     4,
		CollisionMaxValue: 4,
		CollisionAttempts: 1000,
		LogLevel:          "info",
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads path over the defaults and validates the result.
// An empty path returns the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read the config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse the config file %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the struct tags.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s failed %q: %w", verrs[0].Namespace(), verrs[0].Tag(), err)
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Write stores c as YAML at path.
func (c Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Level maps LogLevel to a slog level.
func (c Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
