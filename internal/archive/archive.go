package archive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/oshokin/forgeline/internal/catalog"
	"github.com/oshokin/forgeline/internal/logger"
)

const (
	// checksumChunkSize is the read size used when streaming an archive
	// through the digest, bounding memory use independent of archive size.
	checksumChunkSize = 32 * 1024

	// checksumFilePermissions is the file mode for checksum sidecars.
	checksumFilePermissions os.FileMode = 0o644
)

// Create wraps the fixed-path binary <toolDir>/<tool> into a gzip-compressed
// tar archive <assetName>.tar.gz inside outputDir. The archive holds exactly
// one entry named after the tool, not its full path. The source binary is
// deleted once the archive holds its contents.
func Create(ctx context.Context, toolDir string, target catalog.Target, outputDir string) (string, error) {
	binaryPath := filepath.Join(toolDir, target.Tool)
	archivePath := filepath.Join(outputDir, target.AssetName+".tar.gz")

	logger.InfoKV(ctx, "Creating archive", "file", filepath.Base(archivePath))

	if err := writeArchive(binaryPath, archivePath, target.Tool); err != nil {
		return "", fmt.Errorf("create archive %s: %w", filepath.Base(archivePath), err)
	}

	if err := os.Remove(binaryPath); err != nil {
		return "", fmt.Errorf("remove source binary: %w", err)
	}

	return archivePath, nil
}

// writeArchive streams the binary into a new tar.gz file with a single entry.
func writeArchive(binaryPath, archivePath, entryName string) error {
	binary, err := os.Open(filepath.Clean(binaryPath))
	if err != nil {
		return err
	}

	//nolint:errcheck // Read-only file.
	defer binary.Close()

	info, err := binary.Stat()
	if err != nil {
		return err
	}

	out, err := os.Create(filepath.Clean(archivePath))
	if err != nil {
		return err
	}

	gzWriter := gzip.NewWriter(out)
	tarWriter := tar.NewWriter(gzWriter)

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		closeArchive(tarWriter, gzWriter, out)
		return err
	}

	header.Name = entryName

	if err = tarWriter.WriteHeader(header); err != nil {
		closeArchive(tarWriter, gzWriter, out)
		return err
	}

	if _, err = io.Copy(tarWriter, binary); err != nil {
		closeArchive(tarWriter, gzWriter, out)
		return err
	}

	// Close order matters: tar flushes into gzip, gzip flushes into the file.
	if err = tarWriter.Close(); err != nil {
		return err
	}

	if err = gzWriter.Close(); err != nil {
		return err
	}

	return out.Close()
}

// closeArchive releases the writer chain after a failed write, best effort.
func closeArchive(tarWriter *tar.Writer, gzWriter *gzip.Writer, out *os.File) {
	_ = tarWriter.Close()
	_ = gzWriter.Close()
	_ = out.Close()
}

// Checksum streams the archive through SHA-256 in fixed-size chunks and
// writes a sidecar file <archivePath>.sha256 containing the lowercase hex
// digest, two spaces, and the archive's base filename, followed by a newline.
// The format matches what sha256sum-style verification tools consume.
func Checksum(ctx context.Context, archivePath string) (string, error) {
	digest, err := fileDigest(archivePath)
	if err != nil {
		return "", fmt.Errorf("checksum %s: %w", filepath.Base(archivePath), err)
	}

	checksumPath := archivePath + ".sha256"
	contents := fmt.Sprintf("%s  %s\n", digest, filepath.Base(archivePath))

	if err = os.WriteFile(checksumPath, []byte(contents), checksumFilePermissions); err != nil {
		return "", fmt.Errorf("write checksum sidecar: %w", err)
	}

	logger.InfoKV(ctx, "Checksum computed", "file", filepath.Base(archivePath), "sha256", digest)

	return checksumPath, nil
}

// fileDigest returns the lowercase hex SHA-256 digest of the file.
func fileDigest(path string) (string, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", err
	}

	//nolint:errcheck // Read-only file.
	defer file.Close()

	hasher := sha256.New()
	buf := make([]byte, checksumChunkSize)

	if _, err = io.CopyBuffer(hasher, file, buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
