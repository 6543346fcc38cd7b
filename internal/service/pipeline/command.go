package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/oshokin/forgeline/internal/catalog"
	"github.com/oshokin/forgeline/internal/executor"
	"github.com/oshokin/forgeline/internal/logger"
)

// Options contains inputs for the pipeline entry point.
type Options struct {
	// Tool restricts the run to one catalog tool identifier. Empty means all.
	Tool string
	// Target restricts the run to one target triple across any tool. Empty means all.
	Target string
	// OutputDir is the destination for archives and checksums.
	// Relative paths resolve against Root. Created if absent.
	OutputDir string
	// Root is the repository root containing the tool directories.
	Root string
	// SkipTests bypasses the test phase.
	SkipTests bool
	// Engine is the container engine binary (defaults to docker).
	Engine string
	// Cargo is the toolchain binary (defaults to cargo).
	Cargo string
}

// Artifact is the pair of files produced for one built target.
type Artifact struct {
	// ArchivePath is the produced tar.gz archive.
	ArchivePath string
	// ChecksumPath is the sha256 sidecar next to the archive.
	ChecksumPath string
}

// Run executes the whole pipeline against the static catalog:
// filter, test once per tool, build and package each target in catalog order.
// It returns the artifacts produced before the first failure, if any.
func Run(ctx context.Context, opts *Options) ([]Artifact, error) {
	ctx = logger.WithName(ctx, "pipeline")

	svc, err := newService(opts, executor.New(), catalog.Targets())
	if err != nil {
		return nil, fmt.Errorf("initialize pipeline: %w", err)
	}

	artifacts, err := svc.run(ctx)
	if err != nil {
		return artifacts, err
	}

	logger.Infof(ctx, "Build complete, artifacts in %s:", svc.outputDir)

	for _, artifact := range artifacts {
		logger.Infof(ctx, "  %s", filepath.Base(artifact.ArchivePath))
		logger.Infof(ctx, "  %s", filepath.Base(artifact.ChecksumPath))
	}

	return artifacts, nil
}
