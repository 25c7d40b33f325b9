package batch

import (
	"errors"
	"fmt"
	"os"
)

// List returns the names of the entries directly within dir.
// Entries are not filtered by type or extension.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Join(ErrDirectoryAccess, fmt.Errorf("%q: %w", dir, err))
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
