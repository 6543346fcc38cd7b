package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// writeMarker places a lock marker for the given pid in the root.
func writeMarker(t *testing.T, root string, pid int) {
	t.Helper()

	data, err := yaml.Marshal(lockMarker{PID: pid, StartedAt: time.Now().UTC()})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, LockFilename), data, 0o600))
}

// TestAcquireLockCreatesAndReleasesMarker verifies the happy path.
func TestAcquireLockCreatesAndReleasesMarker(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	release, err := acquireLock(context.Background(), root)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(root, LockFilename))

	release()
	require.NoFileExists(t, filepath.Join(root, LockFilename))
}

// TestAcquireLockRejectsLiveHolder verifies a marker owned by a live process blocks acquisition.
func TestAcquireLockRejectsLiveHolder(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	// The parent of the test process is certainly alive.
	writeMarker(t, root, os.Getppid())

	_, err := acquireLock(context.Background(), root)
	require.ErrorIs(t, err, ErrLocked)
}

// TestAcquireLockReclaimsStaleMarker verifies markers left by dead processes are reclaimed.
func TestAcquireLockReclaimsStaleMarker(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	// A pid far beyond any default pid_max.
	writeMarker(t, root, 1<<30)

	release, err := acquireLock(context.Background(), root)
	require.NoError(t, err)

	release()
}

// TestAcquireLockReclaimsCorruptMarker verifies an unreadable marker does not wedge the pipeline.
func TestAcquireLockReclaimsCorruptMarker(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, LockFilename), []byte(":::"), 0o600))

	release, err := acquireLock(context.Background(), root)
	require.NoError(t, err)

	release()
}

// TestAcquireLockIgnoresOwnPid verifies the current process never conflicts with itself.
func TestAcquireLockIgnoresOwnPid(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeMarker(t, root, os.Getpid())

	release, err := acquireLock(context.Background(), root)
	require.NoError(t, err)

	release()
}
