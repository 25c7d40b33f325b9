// Package constants is responsible for defining the constants used in the application.
// It also provides utility functions to get the default configuration path.
package constants

import (
	"log/slog"
	"os"
	"path/filepath"
)

var (
	// Version is the version of the application.
	Version = "Dev"
)

const (
	// CmdName is the name of the command line tool.
	CmdName = "devname-fixer"

	// DefaultAppFolder is the name of the default configuration folder.
	DefaultAppFolder = "devname-fixer"

	// DefaultLogLevel is the default log level selected without any verbosity flags.
	DefaultLogLevel = slog.LevelInfo

	// DefaultField is the JSON field rewritten when none is configured.
	DefaultField = "devName"

	// DefaultPattern is the substring removed from the field when none is configured.
	DefaultPattern = "__c"

	// DefaultIndent is the number of spaces used to indent rewritten files.
	DefaultIndent = 2

	// MaxIndent is the largest indentation width accepted.
	MaxIndent = 8
)

type options struct {
	baseDir func() (string, error)
}

type option func(*options)

// GetDefaultConfigPath is the default path to the user configuration folder.
// It returns an empty string if the user configuration directory can't be determined.
func GetDefaultConfigPath(opts ...option) string {
	o := options{baseDir: os.UserConfigDir}
	for _, opt := range opts {
		opt(&o)
	}

	base := getBaseDir(o.baseDir)
	if base == "" {
		return ""
	}
	return filepath.Join(base, DefaultAppFolder)
}

// getBaseDir is a helper function to handle the case where the baseDir function returns an error, and instead return an empty string.
func getBaseDir(baseDirFunc func() (string, error)) string {
	dir, err := baseDirFunc()
	if err != nil {
		return ""
	}
	return dir
}
