// Package builder implements the two build strategies of the pipeline:
// native in-place cross-compilation and containerized builds with
// ephemeral-container extraction.
//
// Strategy selection is driven entirely by the presence of a containerfile
// on the catalog target, keeping the dispatch in one place. Both strategies
// deliver the binary to the same fixed tool-local path, so the packager does
// not care which one produced it.
package builder
