package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/forgeline/internal/catalog"
	"github.com/oshokin/forgeline/internal/config"
	"github.com/oshokin/forgeline/internal/logger"
	"github.com/oshokin/forgeline/internal/service/pipeline"
	"github.com/oshokin/forgeline/internal/version"
)

// errUnknownTool is returned when --tool names a tool absent from the catalog.
var errUnknownTool = errors.New("unknown tool")

var (
	// toolName restricts the run to one catalog tool.
	toolName string
	// targetTriple restricts the run to one target triple.
	targetTriple string
	// outputDir is the destination for archives and checksums.
	outputDir string
	// rootDir is the repository root containing the tool directories.
	rootDir string
	// skipTests bypasses the test phase.
	skipTests bool
	// listTargets prints the catalog and exits without building.
	listTargets bool
	// configPath is an optional path to the settings YAML file.
	configPath string
	// logLevel overrides the configured logging level.
	logLevel string

	// rootCmd represents the base command for the release pipeline.
	rootCmd = &cobra.Command{
		Use:   "forgeline",
		Short: "Build, package, and checksum release artifacts for the tool catalog",
		Long: "forgeline runs the release pipeline over the static catalog of (tool, platform) " +
			"combinations: it tests each tool once, cross-compiles natively or through a " +
			"container image, wraps each binary into a tar.gz archive, and writes a sha256 " +
			"sidecar next to it. Targets are built sequentially in catalog order and the " +
			"first failure aborts the run.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PreRunE:      validateSelectors,
		RunE:         run,
	}
)

// Execute runs the forgeline CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVar(&toolName, "tool", "", "build only a specific catalog tool")
	rootCmd.Flags().StringVar(&targetTriple, "target", "", "build only a specific target triple")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "output directory for artifacts")
	rootCmd.Flags().StringVar(&rootDir, "root", ".", "repository root containing the tool directories")
	rootCmd.Flags().BoolVar(&skipTests, "skip-tests", false, "skip running tests")
	rootCmd.Flags().BoolVar(&listTargets, "list-targets", false, "list all available build targets and exit")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to settings file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, fatal)")
}

// validateSelectors rejects a --tool value absent from the catalog at the
// argument-parsing layer, before the pipeline runs.
func validateSelectors(_ *cobra.Command, _ []string) error {
	if toolName == "" {
		return nil
	}

	if !slices.Contains(catalog.Tools(), toolName) {
		return fmt.Errorf("%s (catalog has: %v): %w", toolName, catalog.Tools(), errUnknownTool)
	}

	return nil
}

// run executes the selected mode: target listing or the full pipeline.
func run(cmd *cobra.Command, _ []string) error {
	if listTargets {
		for _, target := range catalog.Targets() {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), target.String())
		}

		return nil
	}

	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	applyLogLevel(cfg)

	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	options := &pipeline.Options{
		Tool:      toolName,
		Target:    targetTriple,
		OutputDir: firstNonEmpty(outputDir, cfg.OutputDir),
		Root:      rootDir,
		SkipTests: skipTests,
		Engine:    cfg.Engine,
		Cargo:     cfg.Cargo,
	}

	_, err = pipeline.Run(ctx, options)

	return err
}

// loadSettings reads the settings file. An explicitly requested file must
// exist; the default file is optional.
func loadSettings() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	if _, err := os.Stat(config.DefaultConfigFilename); err != nil {
		return config.Default(), nil
	}

	return config.Load(config.DefaultConfigFilename)
}

// applyLogLevel sets the global logging level from the flag or settings.
func applyLogLevel(cfg *config.Config) {
	if level, ok := logger.ParseLogLevel(firstNonEmpty(logLevel, cfg.LogLevel)); ok {
		logger.SetLevel(level)
	}
}

// firstNonEmpty returns the first non-empty string of the two.
func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}

	return b
}
