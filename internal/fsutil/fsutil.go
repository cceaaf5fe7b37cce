// Package fsutil holds the small filesystem capabilities the config
// writers depend on: directory creation, permission application, and
// permission auditing.
package fsutil

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

// EnsureDir creates dir (and parents) with owner-only permissions.
// Existing directories are left alone.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create dir %q: %w", dir, err)
	}
	return nil
}

// Chmod applies mode to an open file handle. Callers apply the mode
// before writing any content so a secret-bearing file is never readable
// at default permissions, even briefly.
func Chmod(f *os.File, mode fs.FileMode) error {
	if err := f.Chmod(mode); err != nil {
		return fmt.Errorf("chmod %q: %w", f.Name(), err)
	}
	return nil
}

// WarnOnWorldAccessible logs a warning when path is accessible by group
// or other. It never blocks: the file is still usable, just badly
// protected for something holding a private key.
func WarnOnWorldAccessible(path string) {
	fi, err := os.Stat(path)
	if err != nil {
		return
	}
	if perm := fi.Mode().Perm(); perm&0o077 != 0 {
		slog.Warn("config file is accessible by other users",
			"path", path,
			"mode", fmt.Sprintf("%04o", uint32(perm)))
	}
}
