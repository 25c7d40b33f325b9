// Package fileutils provides utility functions for handling files.
package fileutils

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadText returns the content of the file at path as UTF-8 text.
//
// A leading byte order mark selects the decoding: a UTF-8 BOM is dropped and UTF-16 content is converted to UTF-8.
// Content that is not UTF-16 must be valid UTF-8: invalid bytes are an error wrapping encoding.ErrInvalidUTF8,
// they are never replaced.
func ReadText(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	t := encoding.UTF8Validator
	if hasUTF16BOM(raw) {
		t = unicode.BOMOverride(unicode.UTF8.NewDecoder())
	} else {
		raw = bytes.TrimPrefix(raw, utf8BOM)
	}

	data, _, err := transform.Bytes(t, raw)
	if err != nil {
		return nil, fmt.Errorf("could not decode %q as text: %w", path, err)
	}
	return data, nil
}

func hasUTF16BOM(b []byte) bool {
	return len(b) >= 2 && ((b[0] == 0xFE && b[1] == 0xFF) || (b[0] == 0xFF && b[1] == 0xFE))
}

// AtomicWrite writes data to a file atomically.
// If the file already exists, then it will be overwritten and its permissions are kept.
// Not atomic on Windows.
func AtomicWrite(path string, data []byte) error {
	perm := fs.FileMode(0600)
	if fi, err := os.Stat(path); err == nil {
		perm = fi.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not stat destination file: %v", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary file: %v", err)
	}
	defer func() {
		_ = tmp.Close()
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			slog.Warn("Failed to remove temporary file", "file", tmp.Name(), "error", err)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("could not write to temporary file: %v", err)
	}

	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("could not set permissions on temporary file: %v", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close temporary file: %v", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not rename temporary file: %v", err)
	}
	return nil
}
