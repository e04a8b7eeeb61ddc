//go:build !unix

package preflight

import (
	"os"
	"path/filepath"
)

// checkAccess tests writability by creating and removing a temp file.
func checkAccess(path string) error {
	f, err := os.CreateTemp(path, ".av3atool-access-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(filepath.Clean(name))
}
