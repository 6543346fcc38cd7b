package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/forgeline/internal/logger"
)

// Config holds pipeline settings shared across invocations.
// Every field has a default; a missing settings file is not an error.
type Config struct {
	// Engine is the container engine binary used for containerized builds.
	Engine string `yaml:"engine"`
	// Cargo is the toolchain binary used for tests and native builds.
	Cargo string `yaml:"cargo"`
	// OutputDir is the default destination for archives and checksums.
	OutputDir string `yaml:"output_dir"`
	// LogLevel is the minimum level for pipeline logging.
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for pipeline settings.
	DefaultConfigFilename = "forgeline-settings.yaml"

	// DefaultEngine is the container engine binary used when none is configured.
	DefaultEngine = "docker"

	// DefaultCargo is the toolchain binary used when none is configured.
	DefaultCargo = "cargo"

	// DefaultOutputDir is the artifact destination used when none is configured.
	DefaultOutputDir = "dist"

	// DefaultLogLevel is the logging level used when none is configured.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for settings files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownLogLevel is returned when the configured log level does not parse.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Default returns a configuration populated with all default values.
func Default() *Config {
	return &Config{
		Engine:    DefaultEngine,
		Cargo:     DefaultCargo,
		OutputDir: DefaultOutputDir,
		LogLevel:  DefaultLogLevel,
	}
}

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills in defaults for empty fields and rejects values that
// cannot be interpreted.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Engine == "" {
		cfg.Engine = DefaultEngine
	}

	if cfg.Cargo == "" {
		cfg.Cargo = DefaultCargo
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%s: %w", cfg.LogLevel, errUnknownLogLevel)
	}

	return nil
}
