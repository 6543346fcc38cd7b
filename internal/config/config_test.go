package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidateDefaults checks that empty fields are filled with defaults.
func TestValidateDefaults(t *testing.T) {
	t.Parallel()

	cfg := new(Config)
	require.NoError(t, Validate(cfg))
	require.Equal(t, Default(), cfg)

	// Explicit values survive validation.
	cfg = &Config{Engine: "podman", LogLevel: "debug"}
	require.NoError(t, Validate(cfg))
	require.Equal(t, "podman", cfg.Engine)
	require.Equal(t, "debug", cfg.LogLevel)

	// Unknown log levels are rejected.
	cfg = &Config{LogLevel: "chatty"}
	require.Error(t, Validate(cfg))

	// Nil configuration is rejected.
	require.Error(t, Validate(nil))
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg := &Config{
		Engine:    "podman",
		Cargo:     "cargo",
		OutputDir: "artifacts",
		LogLevel:  "warn",
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

// TestLoadMissingFile ensures a missing settings file surfaces as an error to the caller.
func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
