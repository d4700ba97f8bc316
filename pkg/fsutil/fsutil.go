// Package fsutil implements Component A from spec.md §4.A: path
// normalization, recursive source enumeration, directory lifecycle, and
// mtime/size queries. Every operation that can fail signals an
// ymerrors.Fs error rather than silently succeeding on a failed write,
// matching the teacher's pattern of wrapping every os.* call site.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ymake-build/ymake/pkg/ymerrors"
)

// SourceExtensions is the fixed set of extensions YMake recognizes as C/C++
// translation units, per spec.md §4.A.
var SourceExtensions = []string{".c", ".cpp", ".cc", ".cxx", ".c++", ".cp", ".tpp"}

// CreateDir creates path and all missing parents, succeeding if it already
// exists (idempotent per spec.md §4.A).
func CreateDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return ymerrors.Fs("create directory", path, err)
	}
	return nil
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// RemoveTree recursively removes path, succeeding if it does not exist.
func RemoveTree(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return ymerrors.Fs("remove tree", path, err)
	}
	return nil
}

// AbsoluteNormalized returns the absolute, lexically cleaned form of path.
func AbsoluteNormalized(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", ymerrors.Fs("resolve absolute path", path, err)
	}
	return filepath.Clean(abs), nil
}

// ConcatenatePath joins rel onto base, using base's parent directory if
// base is itself a file, and returns the absolute-normalized result.
func ConcatenatePath(base, rel string) (string, error) {
	absBase, err := AbsoluteNormalized(base)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(absBase); err == nil && !info.IsDir() {
		absBase = filepath.Dir(absBase)
	}
	return AbsoluteNormalized(filepath.Join(absBase, rel))
}

// GetSize returns the size in bytes of the file at path.
func GetSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, ymerrors.Fs("stat", path, err)
	}
	return info.Size(), nil
}

// GetLastWrite returns the file's modification time as seconds since the
// epoch, using the local clock per spec.md §4.A.
func GetLastWrite(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, ymerrors.Fs("stat", path, err)
	}
	return info.ModTime().Unix(), nil
}

// GetSrcFilesRecursive yields the absolute paths of every file under dir
// whose extension is in SourceExtensions, walking each real directory (after
// resolving symlinks) at most once.
func GetSrcFilesRecursive(dir string) ([]string, error) {
	patterns := make([]string, len(SourceExtensions))
	for i, ext := range SourceExtensions {
		patterns[i] = "**/*" + ext
	}
	return walkMatching(dir, patterns)
}

// GetFilesWithExt yields the absolute paths of every file under dir with
// the given extension (e.g. ".o").
func GetFilesWithExt(dir, ext string) ([]string, error) {
	return walkMatching(dir, []string{"**/*" + ext})
}

// walkMatching walks dir, returning every file whose path (relative to dir,
// slash-separated) matches one of the doublestar glob patterns.
func walkMatching(dir string, patterns []string) ([]string, error) {
	absDir, err := AbsoluteNormalized(dir)
	if err != nil {
		return nil, err
	}

	var results []string
	visitedRealDirs := make(map[string]struct{})

	var walk func(current string) error
	walk = func(current string) error {
		realCurrent, err := filepath.EvalSymlinks(current)
		if err != nil {
			return ymerrors.Fs("resolve symlinks", current, err)
		}
		if _, seen := visitedRealDirs[realCurrent]; seen {
			return nil
		}
		visitedRealDirs[realCurrent] = struct{}{}

		entries, err := os.ReadDir(current)
		if err != nil {
			return ymerrors.Fs("read directory", current, err)
		}
		for _, entry := range entries {
			full := filepath.Join(current, entry.Name())
			info, err := entry.Info()
			if err != nil {
				return ymerrors.Fs("stat", full, err)
			}
			if info.IsDir() || (info.Mode()&fs.ModeSymlink != 0 && isDir(full)) {
				if err := walk(full); err != nil {
					return err
				}
				continue
			}
			rel, err := filepath.Rel(absDir, full)
			if err != nil {
				return ymerrors.Fs("relativize path", full, err)
			}
			rel = filepath.ToSlash(rel)
			for _, pattern := range patterns {
				matched, err := doublestar.Match(pattern, rel)
				if err != nil {
					return ymerrors.Fs("match glob", full, err)
				}
				if matched {
					abs, err := AbsoluteNormalized(full)
					if err != nil {
						return err
					}
					results = append(results, abs)
					break
				}
			}
		}
		return nil
	}

	if !DirExists(absDir) {
		return results, nil
	}
	if err := walk(absDir); err != nil {
		return nil, err
	}
	return results, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
