package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matcache.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 7\nsize: 3\ncache:\n  shards: 8\nlog_level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, int64(7), cfg.Seed)
	require.Equal(t, 3, cfg.Size)
	require.Equal(t, 8, cfg.Cache.Shards)
	require.Equal(t, 10, cfg.MaxValue, "unset keys keep defaults")
	require.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"size":      "size: 0\n",
		"level":     "log_level: loud\n",
		"shards":    "cache:\n  shards: 1000\n",
		"collision": "collision_max_value: 1\n",
		"out dir":   "out_dir: \"\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := Load(path)
			require.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("size: [\n"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	want := Default()
	want.Seed = 42
	require.NoError(t, want.Write(path))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
