package safeio

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// ErrTraversal is returned when a path tries to climb out of its root.
var ErrTraversal = errors.New("path traversal detected")

// CleanUserPath cleans a user-provided path and rejects traversal attempts.
// Returns paths with forward slashes for cross-platform consistency.
func CleanUserPath(p string) (string, error) {
	c := filepath.ToSlash(filepath.Clean(p))
	for _, seg := range strings.Split(c, "/") {
		if seg == ".." {
			return "", ErrTraversal
		}
	}
	return c, nil
}

// WebRootRelative turns a web path such as "/assets/a.mp3" into a path relative to the
// deploy root ("assets/a.mp3"). Only a single leading slash is stripped; paths that would
// escape the root are rejected.
func WebRootRelative(webPath string) (string, error) {
	trimmed := strings.TrimPrefix(webPath, "/")
	if trimmed == "" {
		return "", fmt.Errorf("empty asset path %q", webPath)
	}
	c, err := CleanUserPath(path.Clean(trimmed))
	if err != nil {
		return "", fmt.Errorf("asset path %q: %w", webPath, err)
	}
	return c, nil
}

// Exists reports whether name exists on fs, file or directory.
func Exists(fs billy.Basic, name string) bool {
	_, err := fs.Stat(name)
	return err == nil
}

// IsDir reports whether name exists on fs and is a directory.
func IsDir(fs billy.Basic, name string) bool {
	st, err := fs.Stat(name)
	return err == nil && st.IsDir()
}

// ReadFile reads the whole of name from fs.
func ReadFile(fs billy.Basic, name string) ([]byte, error) {
	return util.ReadFile(fs, name)
}

// WriteFileAtomic writes data to a temp file next to name and renames it into place,
// creating parent directories as needed. Readers never observe a half-written file.
func WriteFileAtomic(fs billy.Filesystem, name string, data []byte) (err error) {
	dir := path.Dir(filepath.ToSlash(name))
	if dir != "." && dir != "/" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	tmp, err := fs.TempFile(dir, "."+path.Base(name)+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = fs.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err = fs.Rename(tmpName, name); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmpName, name, err)
	}
	return nil
}
