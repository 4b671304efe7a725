// Package fsutil holds the atomic file replacement shared by the
// credential store and the host config synchronizer.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// dirPerm is the mode for parent directories created on demand.
const dirPerm = fs.FileMode(0o700)

// maxSymlinks bounds link resolution, matching the usual ELOOP limit.
const maxSymlinks = 40

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place, so readers see either the old content or the new content and
// never a truncated file. An existing file keeps its permission bits;
// a new file gets defaultPerm. If path is a symlink the link is kept and
// its final target is replaced instead.
func WriteFileAtomic(path string, data []byte, defaultPerm fs.FileMode) error {
	path, err := resolveLink(path)
	if err != nil {
		return err
	}

	perm := defaultPerm
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting file permissions: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// resolveLink follows path through any chain of symlinks, including one
// that dangles, and returns the file that should be replaced.
func resolveLink(path string) (string, error) {
	for range maxSymlinks {
		info, err := os.Lstat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}

		if info.Mode()&fs.ModeSymlink == 0 {
			return path, nil
		}

		link, err := os.Readlink(path)
		if err != nil {
			return "", fmt.Errorf("reading link %s: %w", path, err)
		}

		if !filepath.IsAbs(link) {
			link = filepath.Join(filepath.Dir(path), link)
		}
		path = link
	}

	return "", fmt.Errorf("resolving %s: too many levels of symbolic links", path)
}
