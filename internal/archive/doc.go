// Package archive turns a built binary into its distributable form:
// a single-entry tar.gz archive plus a sha256 checksum sidecar.
//
// The checksum is computed by streaming the archive in fixed-size chunks so
// memory use stays flat regardless of archive size, and the sidecar format
// matches what standard verification tools expect.
package archive
