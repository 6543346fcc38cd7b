package builder

import (
	"context"

	"github.com/oshokin/forgeline/internal/catalog"
	"github.com/oshokin/forgeline/internal/executor"
)

// Runner abstracts the subprocess boundary so strategies can be
// exercised in tests without spawning real toolchains or engines.
// *executor.Executor is the production implementation.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (*executor.Result, error)
}

// Strategy produces a built binary for one catalog target.
// Build returns the fixed tool-local path <toolDir>/<tool> on success.
// The strategies form a closed set: native toolchain or containerized build.
type Strategy interface {
	Build(ctx context.Context, toolDir string, target catalog.Target) (string, error)
}

// Options carries the external binaries the strategies invoke.
type Options struct {
	// Cargo is the toolchain binary used for native builds (default "cargo").
	Cargo string
	// Engine is the container engine binary used for containerized builds (default "docker").
	Engine string
}

// DefaultCargo is the toolchain binary invoked for native cross-compilation.
const DefaultCargo = "cargo"

// DefaultEngine is the container engine binary invoked for containerized builds.
const DefaultEngine = "docker"

// ForTarget selects the strategy for a target: container when a containerfile
// is configured, native otherwise.
//
//nolint:ireturn // Returning the Strategy interface is the point of the dispatch.
func ForTarget(runner Runner, opts Options, target catalog.Target) Strategy {
	if opts.Cargo == "" {
		opts.Cargo = DefaultCargo
	}

	if opts.Engine == "" {
		opts.Engine = DefaultEngine
	}

	if target.Containerized() {
		return &Container{runner: runner, engine: opts.Engine}
	}

	return &Native{runner: runner, cargo: opts.Cargo}
}
