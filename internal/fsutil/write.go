package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// BackupSuffix is appended to a target's path when its original content is kept.
const BackupSuffix = ".orig"

// defaultPerm applies to files that do not exist yet.
const defaultPerm fs.FileMode = 0o644

// WriteFileAtomic replaces the file at path with data through a synced
// temporary file and a rename, so readers never observe a half-written file.
// The existing file mode is kept. When path is a symlink the link target is
// replaced and the link itself stays in place.
func WriteFileAtomic(path string, data []byte) error {
	dest, err := resolve(path)
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(dest, data, defaultPerm, renameio.WithExistingPermissions()); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// resolve follows symlinks in path. A path that does not exist yet is
// returned unchanged.
func resolve(path string) (string, error) {
	dest, err := filepath.EvalSymlinks(path)
	if err == nil {
		return dest, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return path, nil
	}
	return "", fmt.Errorf("failed to resolve %s: %w", path, err)
}

// Backup copies the content of path to path+BackupSuffix, overwriting any
// previous backup, and returns the backup path.
func Backup(path string, content []byte) (string, error) {
	backupPath := path + BackupSuffix
	if err := WriteFileAtomic(backupPath, content); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", path, err)
	}
	return backupPath, nil
}
