// Package testutils provides helper functions for testing
package testutils

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// CmdTestCase describes a flag expected on a cobra command.
type CmdTestCase struct {
	Name           string
	Short          string
	Default        string
	FileExts       []string
	PersistentFlag bool
	BaseCmd        *cobra.Command
}

// FlagTestHelper checks that the flag described by testCase is installed on its command.
// FileExts lists the extensions offered for completion, nil when the flag does not take a file.
func FlagTestHelper(t *testing.T, testCase CmdTestCase) {
	t.Helper()

	flags := testCase.BaseCmd.Flags()
	if testCase.PersistentFlag {
		flags = testCase.BaseCmd.PersistentFlags()
	}
	flag := flags.Lookup(testCase.Name)
	require.NotNil(t, flag, "Flag %q should be installed", testCase.Name)

	assert.Equal(t, testCase.Short, flag.Shorthand, "Unexpected shorthand for %q", testCase.Name)
	assert.Equal(t, testCase.Default, flag.DefValue, "Unexpected default for %q", testCase.Name)
	assert.Equal(t, testCase.FileExts, flag.Annotations[cobra.BashCompFilenameExt], "Unexpected file completion for %q", testCase.Name)
}
