package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/forgeline/internal/archive"
	"github.com/oshokin/forgeline/internal/builder"
	"github.com/oshokin/forgeline/internal/catalog"
	"github.com/oshokin/forgeline/internal/logger"
)

const (
	// outputDirPermissions is the mode for a freshly created output directory.
	outputDirPermissions os.FileMode = 0o755
)

var (
	// ErrNoMatchingTargets indicates filtering left nothing to build.
	// This is a user-visible "no work" result, not a crash.
	ErrNoMatchingTargets = errors.New("no matching targets found")

	// ErrTestsFailed indicates the test phase failed for at least one tool.
	ErrTestsFailed = errors.New("tests failed")
)

// service executes one pipeline invocation. It is unexported—callers should
// use Run, which encapsulates setup against the static catalog.
type service struct {
	// opts holds the caller-supplied selectors and paths.
	opts *Options
	// runner is the subprocess boundary, stubbed in tests.
	runner builder.Runner
	// targets is the filtered, catalog-ordered work list.
	targets []catalog.Target
	// root is the resolved repository root containing tool directories.
	root string
	// outputDir is the resolved artifact destination.
	outputDir string
}

// newService validates the catalog, applies the selectors, and resolves paths.
func newService(opts *Options, runner builder.Runner, targets []catalog.Target) (*service, error) {
	if err := catalog.Validate(targets); err != nil {
		return nil, err
	}

	root := opts.Root
	if root == "" {
		root = "."
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "dist"
	}

	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(root, outputDir)
	}

	return &service{
		opts:      opts,
		runner:    runner,
		targets:   catalog.Filter(targets, opts.Tool, opts.Target),
		root:      root,
		outputDir: outputDir,
	}, nil
}

// run drives the filtered targets through testing, building, and packaging.
func (s *service) run(ctx context.Context) ([]Artifact, error) {
	if len(s.targets) == 0 {
		return nil, ErrNoMatchingTargets
	}

	release, err := acquireLock(ctx, s.root)
	if err != nil {
		return nil, err
	}

	defer release()

	if err = os.MkdirAll(s.outputDir, outputDirPermissions); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	if !s.opts.SkipTests {
		if err = s.testPhase(ctx); err != nil {
			return nil, err
		}
	}

	artifacts := make([]Artifact, 0, len(s.targets))

	for _, target := range s.targets {
		artifact, buildErr := s.buildTarget(ctx, target)
		if buildErr != nil {
			// Fail fast: artifacts already produced stay on disk.
			return artifacts, buildErr
		}

		artifacts = append(artifacts, artifact)
	}

	return artifacts, nil
}

// testPhase runs each distinct tool's tests once, before any build begins.
func (s *service) testPhase(ctx context.Context) error {
	for _, tool := range catalog.DistinctTools(s.targets) {
		if !s.runTests(ctx, tool) {
			return fmt.Errorf("%s: %w", tool, ErrTestsFailed)
		}
	}

	return nil
}

// runTests runs the tool's test command with all feature flags enabled in the
// tool's own directory. A failure is a boolean signal, not an error: the
// captured error text is surfaced through the log for diagnostics.
func (s *service) runTests(ctx context.Context, tool string) bool {
	logger.InfoKV(ctx, "Running tests", "tool", tool)

	toolDir := filepath.Join(s.root, tool)

	if _, err := s.runner.Run(ctx, toolDir, s.cargo(), "test", "--all-features"); err != nil {
		logger.ErrorKV(ctx, "Tests failed", "tool", tool, "error", err)
		return false
	}

	logger.InfoKV(ctx, "Tests passed", "tool", tool)

	return true
}

// buildTarget dispatches one target to its strategy and packages the result.
func (s *service) buildTarget(ctx context.Context, target catalog.Target) (Artifact, error) {
	logger.InfoKV(ctx, "Building target", "asset", target.AssetName)

	toolDir := filepath.Join(s.root, target.Tool)
	strategy := builder.ForTarget(s.runner, builder.Options{Cargo: s.cargo(), Engine: s.opts.Engine}, target)

	if _, err := strategy.Build(ctx, toolDir, target); err != nil {
		return Artifact{}, err
	}

	archivePath, err := archive.Create(ctx, toolDir, target, s.outputDir)
	if err != nil {
		return Artifact{}, err
	}

	checksumPath, err := archive.Checksum(ctx, archivePath)
	if err != nil {
		return Artifact{}, err
	}

	return Artifact{ArchivePath: archivePath, ChecksumPath: checksumPath}, nil
}

// cargo returns the configured toolchain binary name.
func (s *service) cargo() string {
	if s.opts.Cargo != "" {
		return s.opts.Cargo
	}

	return builder.DefaultCargo
}
