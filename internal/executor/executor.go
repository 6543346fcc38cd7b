package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result holds the captured output streams of a finished command.
// It is consumed immediately by the caller and never stored.
type Result struct {
	// Stdout is the captured standard output as text.
	Stdout string
	// Stderr is the captured standard error as text.
	Stderr string
}

// CommandError reports a failed external invocation.
// It carries the joined command line and the captured error stream
// so the operator sees what was attempted and why it failed.
type CommandError struct {
	// Command is the full command line that was executed.
	Command string
	// Stderr is the captured error output of the failed command.
	Stderr string
}

// Error renders the command line and the trimmed error stream.
func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("command failed: %s", e.Command)
	}

	return fmt.Sprintf("command failed: %s: %s", e.Command, msg)
}

// Executor runs external commands synchronously.
// It never retries and never applies its own timeout:
// the invoked tools are relied upon to terminate.
type Executor struct{}

// New returns an Executor.
func New() *Executor {
	return &Executor{}
}

// Run spawns the command in the given working directory, blocks until it
// completes, and captures both output streams as text. A non-zero exit status
// (or a failure to start the process at all) is reported as a *CommandError.
// An empty dir runs the command in the current working directory.
func (e *Executor) Run(ctx context.Context, dir, name string, args ...string) (*Result, error) {
	var stdout, stderr bytes.Buffer

	//nolint:gosec // G204: the command comes from the static catalog and pipeline configuration.
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		cmdLine := commandLine(name, args)

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &CommandError{Command: cmdLine, Stderr: stderr.String()}
		}

		// The process never started (binary missing, bad directory, etc.).
		return nil, &CommandError{Command: cmdLine, Stderr: err.Error()}
	}

	return &Result{Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

// commandLine joins the command and its arguments for error reporting.
func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
