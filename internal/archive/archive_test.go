package archive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/forgeline/internal/catalog"
)

// writeBinary places a fake built binary at the fixed tool-local path.
func writeBinary(t *testing.T, toolDir, tool string, contents []byte) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(toolDir, 0o755))

	path := filepath.Join(toolDir, tool)
	require.NoError(t, os.WriteFile(path, contents, 0o755))

	return path
}

// TestCreateRoundTrip verifies the archive holds exactly one entry named
// after the tool whose bytes equal the original binary, and that the source
// binary is deleted after archiving.
func TestCreateRoundTrip(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	toolDir := filepath.Join(root, "dotsync")
	outputDir := filepath.Join(root, "dist")
	require.NoError(t, os.MkdirAll(outputDir, 0o755))

	contents := []byte("\x7fELF pretend binary contents")
	binaryPath := writeBinary(t, toolDir, "dotsync", contents)

	target := catalog.Target{Tool: "dotsync", Triple: "t1", AssetName: "dotsync-t1"}

	archivePath, err := Create(context.Background(), toolDir, target, outputDir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(outputDir, "dotsync-t1.tar.gz"), archivePath)

	// The archive now solely holds the binary.
	_, err = os.Stat(binaryPath)
	require.ErrorIs(t, err, os.ErrNotExist)

	file, err := os.Open(archivePath)
	require.NoError(t, err)
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	require.NoError(t, err)

	tarReader := tar.NewReader(gzReader)

	header, err := tarReader.Next()
	require.NoError(t, err)
	require.Equal(t, "dotsync", header.Name)

	extracted, err := io.ReadAll(tarReader)
	require.NoError(t, err)
	require.Equal(t, contents, extracted)

	// Exactly one entry.
	_, err = tarReader.Next()
	require.ErrorIs(t, err, io.EOF)
}

// TestCreateMissingBinary verifies a missing source binary is an error.
func TestCreateMissingBinary(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	target := catalog.Target{Tool: "ghost", Triple: "t1", AssetName: "ghost-t1"}

	_, err := Create(context.Background(), root, target, root)
	require.Error(t, err)
}

// TestChecksumFormatAndRoundTrip verifies the sidecar layout and that the
// recorded digest reproduces when the archive is re-hashed.
func TestChecksumFormatAndRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	archivePath := filepath.Join(dir, "tool-t1.tar.gz")
	require.NoError(t, os.WriteFile(archivePath, []byte("compressed bytes"), 0o644))

	checksumPath, err := Checksum(context.Background(), archivePath)
	require.NoError(t, err)
	require.Equal(t, archivePath+".sha256", checksumPath)

	contents, err := os.ReadFile(checksumPath)
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}  tool-t1\.tar\.gz\n$`), string(contents))

	// Re-hash the archive and compare with the recorded digest.
	archiveBytes, err := os.ReadFile(archivePath)
	require.NoError(t, err)

	sum := sha256.Sum256(archiveBytes)
	require.Equal(t, hex.EncodeToString(sum[:]), string(contents[:64]))
}
