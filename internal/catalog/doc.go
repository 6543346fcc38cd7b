// Package catalog defines the static registry of buildable (tool, platform)
// combinations and read-only helpers over it.
//
// The registry is ordered, initialized at process start, and never mutated.
// Filtering and distinct-tool derivation operate on plain slices so the
// orchestrator and tests can work with arbitrary subsets.
package catalog
