package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestListTargets verifies the catalog listing output and that listing does
// not touch the build machinery.
func TestListTargets(t *testing.T) {
	var buf bytes.Buffer

	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"--list-targets"})

	require.NoError(t, rootCmd.Execute())
	require.Contains(t, buf.String(), "dotsync: aarch64-apple-darwin -> dotsync-macos-aarch64")
	require.Contains(t, buf.String(), "dotsync: x86_64-unknown-linux-musl -> dotsync-linux-x86_64")
}

// TestValidateSelectorsRejectsUnknownTool verifies the parser-level tool check.
func TestValidateSelectorsRejectsUnknownTool(t *testing.T) {
	toolName = "no-such-tool"

	t.Cleanup(func() { toolName = "" })

	err := validateSelectors(rootCmd, nil)
	require.ErrorIs(t, err, errUnknownTool)

	toolName = "dotsync"
	require.NoError(t, validateSelectors(rootCmd, nil))
}
