package testutils

import (
	"os"
	"runtime"
	"slices"
)

// unixes are the systems where file modes and write permissions are enforced.
var unixes = []string{"linux", "darwin", "freebsd"}

// IsUnix returns true if the tests run on a Unix-like system.
func IsUnix() bool {
	return slices.Contains(unixes, runtime.GOOS)
}

// IsUnixNonRoot returns true if the tests run on a Unix-like system as a user that permissions apply to.
func IsUnixNonRoot() bool {
	return IsUnix() && os.Geteuid() != 0
}
