package testutils

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CopyDir copies every regular file and directory under srcDir into dstDir, keeping file modes.
func CopyDir(srcDir, dstDir string) error {
	return filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(dstDir, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(dst, info.Mode().Perm()|0700)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(dst, data, info.Mode().Perm())
	})
}

// CopyFixtures copies the fixture directory src into a new temporary directory and returns its path.
func CopyFixtures(t *testing.T, src string) string {
	t.Helper()

	dst := t.TempDir()
	require.NoError(t, CopyDir(src, dst), "Setup: failed to copy fixtures from %s", src)
	return dst
}

// WriteFiles creates dir/name with the given content for every entry of files.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0700), "Setup: failed to create parent of %s", name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0600), "Setup: failed to write %s", name)
	}
}

// GetDirContents returns the contents of a directory as a map of slash separated relative paths to file contents.
// Directories are not listed. The walk fails if it goes deeper than maxDepth.
func GetDirContents(t *testing.T, dir string, maxDepth uint) (map[string]string, error) {
	t.Helper()

	files := make(map[string]string)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		if depth := uint(len(bytes.Split([]byte(filepath.ToSlash(rel)), []byte("/")))); depth > maxDepth {
			return fmt.Errorf("max depth %d exceeded at %s", maxDepth, rel)
		}

		if d.IsDir() {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")))
		return nil
	})

	return files, err
}

// MakeReadOnly makes dest read only and restores its permissions on cleanup.
func MakeReadOnly(t *testing.T, dest string) {
	t.Helper()

	fi, err := os.Stat(dest)
	require.NoError(t, err, "Setup: cannot stat %s", dest)
	mode := fi.Mode()

	var perms fs.FileMode = 0444
	if fi.IsDir() {
		perms = 0555
	}
	require.NoError(t, os.Chmod(dest, perms), "Setup: cannot make %s read only", dest)

	t.Cleanup(func() {
		if _, err := os.Stat(dest); errors.Is(err, os.ErrNotExist) {
			return
		}
		require.NoError(t, os.Chmod(dest, mode), "Cleanup: cannot restore permissions of %s", dest)
	})
}
