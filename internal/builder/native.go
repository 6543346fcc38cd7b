package builder

import (
	"context"
	"path/filepath"

	"github.com/oshokin/forgeline/internal/catalog"
	"github.com/oshokin/forgeline/internal/logger"
)

// Native cross-compiles in-place using the locally installed toolchain.
// The toolchain and its cross-target support must already be present.
type Native struct {
	runner Runner
	cargo  string
}

// Build compiles the target in release mode, strips debug symbols, and copies
// the binary to the fixed tool-local path. Each step is a separate external
// invocation; the first failure aborts.
func (n *Native) Build(ctx context.Context, toolDir string, target catalog.Target) (string, error) {
	logger.InfoKV(ctx, "Building native binary", "triple", target.Triple)

	if _, err := n.runner.Run(ctx, toolDir, n.cargo, "build", "--release", "--target", target.Triple); err != nil {
		return "", err
	}

	binaryPath := filepath.Join(toolDir, "target", target.Triple, "release", target.Tool)

	if _, err := n.runner.Run(ctx, toolDir, "strip", binaryPath); err != nil {
		return "", err
	}

	destPath := filepath.Join(toolDir, target.Tool)

	if _, err := n.runner.Run(ctx, toolDir, "cp", binaryPath, destPath); err != nil {
		return "", err
	}

	return destPath, nil
}
