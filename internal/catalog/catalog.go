package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// Target describes one buildable (tool, platform) combination.
// Values are immutable: the registry is defined once at process start.
type Target struct {
	// Tool is the identifier of the thing being built.
	Tool string
	// Triple is the platform/architecture identifier passed to the toolchain.
	Triple string
	// AssetName is the base filename for the produced archive, unique per target.
	AssetName string
	// Containerfile is an optional path relative to the tool directory.
	// A non-empty value selects the container build strategy.
	Containerfile string
}

// Containerized reports whether the target is built through the container strategy.
func (t Target) Containerized() bool {
	return t.Containerfile != ""
}

// String renders the target in the form used by target listings.
func (t Target) String() string {
	return fmt.Sprintf("%s: %s -> %s", t.Tool, t.Triple, t.AssetName)
}

var (
	// errDuplicateAssetName indicates two catalog entries share an asset name.
	errDuplicateAssetName = errors.New("duplicate asset name")
	// errIncompleteTarget indicates a catalog entry is missing a required field.
	errIncompleteTarget = errors.New("incomplete target")
)

// targets is the authoritative ordered registry of buildable combinations.
//
//nolint:gochecknoglobals // The catalog is process-wide immutable configuration.
var targets = []Target{
	{
		Tool:      "dotsync",
		Triple:    "aarch64-apple-darwin",
		AssetName: "dotsync-macos-aarch64",
	},
	{
		Tool:          "dotsync",
		Triple:        "x86_64-unknown-linux-musl",
		AssetName:     "dotsync-linux-x86_64",
		Containerfile: "Dockerfile.linux-x86_64",
	},
	{
		Tool:          "dotsync",
		Triple:        "aarch64-unknown-linux-musl",
		AssetName:     "dotsync-linux-aarch64",
		Containerfile: "Dockerfile.linux-aarch64",
	},
}

// Targets returns the full ordered list of catalog entries.
// The returned slice is a copy; callers may not mutate the registry.
func Targets() []Target {
	return append([]Target(nil), targets...)
}

// Tools returns the sorted set of distinct tool identifiers in the catalog.
func Tools() []string {
	return distinctTools(targets)
}

// DistinctTools returns the sorted set of distinct tool identifiers
// among the provided targets.
func DistinctTools(list []Target) []string {
	return distinctTools(list)
}

func distinctTools(list []Target) []string {
	seen := make(map[string]struct{}, len(list))
	tools := make([]string, 0, len(list))

	for _, t := range list {
		if _, ok := seen[t.Tool]; ok {
			continue
		}

		seen[t.Tool] = struct{}{}
		tools = append(tools, t.Tool)
	}

	sort.Strings(tools)

	return tools
}

// Filter narrows the list by optional tool and triple selectors.
// Both selectors are exact-match and AND-combined; an empty selector matches everything.
// An empty result is a value, not an error.
func Filter(list []Target, tool, triple string) []Target {
	filtered := make([]Target, 0, len(list))

	for _, t := range list {
		if tool != "" && t.Tool != tool {
			continue
		}

		if triple != "" && t.Triple != triple {
			continue
		}

		filtered = append(filtered, t)
	}

	return filtered
}

// Validate checks the catalog invariants: every entry carries a tool, a triple
// and an asset name, and asset names are pairwise distinct.
func Validate(list []Target) error {
	seen := make(map[string]struct{}, len(list))

	for _, t := range list {
		if t.Tool == "" || t.Triple == "" || t.AssetName == "" {
			return fmt.Errorf("%s/%s: %w", t.Tool, t.Triple, errIncompleteTarget)
		}

		if _, ok := seen[t.AssetName]; ok {
			return fmt.Errorf("%s: %w", t.AssetName, errDuplicateAssetName)
		}

		seen[t.AssetName] = struct{}{}
	}

	return nil
}
