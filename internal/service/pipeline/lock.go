package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	ps "github.com/mitchellh/go-ps"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/forgeline/internal/logger"
)

// LockFilename marks that a pipeline is running against this root
// to avoid two invocations racing on the same fixed-path binaries
// and same-named ephemeral containers.
const LockFilename = "forgeline-lock.yaml"

// lockFilePermissions is the file mode for the lock marker.
const lockFilePermissions os.FileMode = 0o600

// ErrLocked indicates another pipeline invocation is already running
// against the same repository root.
var ErrLocked = errors.New("another pipeline invocation is already running")

// lockMarker is the content of the lock file.
type lockMarker struct {
	// PID is the process holding the lock.
	PID int `yaml:"pid"`
	// StartedAt records when the lock was taken.
	StartedAt time.Time `yaml:"started_at"`
}

// acquireLock takes the per-root marker lock. A marker left by a process
// that is no longer alive is considered stale and reclaimed.
func acquireLock(ctx context.Context, root string) (release func(), err error) {
	path := filepath.Join(root, LockFilename)

	contents, err := os.ReadFile(filepath.Clean(path))

	switch {
	case err == nil:
		var marker lockMarker
		if unmarshalErr := yaml.Unmarshal(contents, &marker); unmarshalErr == nil && processAlive(marker.PID) {
			return nil, fmt.Errorf("%s (pid %d): %w", path, marker.PID, ErrLocked)
		}

		logger.InfoKV(ctx, "Reclaiming stale pipeline lock", "path", path)
	case errors.Is(err, os.ErrNotExist):
		// No marker, the lock is free.
	default:
		return nil, fmt.Errorf("read pipeline lock: %w", err)
	}

	marker := lockMarker{PID: os.Getpid(), StartedAt: time.Now().UTC()}

	data, err := yaml.Marshal(marker)
	if err != nil {
		return nil, fmt.Errorf("marshal pipeline lock: %w", err)
	}

	if err = os.WriteFile(path, data, lockFilePermissions); err != nil {
		return nil, fmt.Errorf("write pipeline lock: %w", err)
	}

	return func() {
		if removeErr := os.Remove(path); removeErr != nil {
			logger.WarnKV(ctx, "Failed to remove pipeline lock", "path", path, "error", removeErr)
		}
	}, nil
}

// processAlive reports whether a process with the given pid exists.
// The current process never counts as a conflicting holder.
func processAlive(pid int) bool {
	if pid <= 0 || pid == os.Getpid() {
		return false
	}

	process, err := ps.FindProcess(pid)
	if err != nil {
		// Cannot inspect the process table; assume the holder is alive
		// rather than risk two pipelines on one root.
		return true
	}

	return process != nil
}
