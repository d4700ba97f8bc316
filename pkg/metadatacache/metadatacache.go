// Package metadatacache implements Component D from spec.md §4.D: the
// per-project key/value store mapping an absolute source path to its
// (mtime, size), used to decide whether a file needs recompiling.
package metadatacache

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ymake-build/ymake/pkg/fsutil"
	"github.com/ymake-build/ymake/pkg/ymerrors"
)

// FileMetadata is the cached (mtime, size) pair for one source file.
type FileMetadata struct {
	LastWriteTime int64
	FileSize      int64
}

const metadataFileName = "metadata.cache"

func metadataPath(projectCacheDir string) string {
	return filepath.Join(projectCacheDir, metadataFileName)
}

// Create writes a full metadata cache for files, overwriting any existing
// file, per spec.md §4.D.
func Create(files []string, projectCacheDir string) error {
	entries := make(map[string]FileMetadata, len(files))
	for _, f := range files {
		size, err := fsutil.GetSize(f)
		if err != nil {
			return err
		}
		mtime, err := fsutil.GetLastWrite(f)
		if err != nil {
			return err
		}
		entries[f] = FileMetadata{LastWriteTime: mtime, FileSize: size}
	}
	return writeAll(projectCacheDir, entries)
}

// Load reads the metadata cache for projectCacheDir. A missing file returns
// an empty map and ymerrors.CacheMiss, which callers treat as "recovered
// locally: fall back to a clean build" per spec.md §7.
func Load(projectCacheDir string) (map[string]FileMetadata, error) {
	path := metadataPath(projectCacheDir)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]FileMetadata{}, ymerrors.CacheMiss(path)
	}
	if err != nil {
		return nil, ymerrors.Fs("read metadata cache", path, err)
	}

	entries := map[string]FileMetadata{}
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, ymerrors.CacheCorrupt(path, fmt.Errorf("expected 3 fields, got %d: %q", len(fields), line))
		}
		mtime, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, ymerrors.CacheCorrupt(path, err)
		}
		size, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, ymerrors.CacheCorrupt(path, err)
		}
		entries[fields[0]] = FileMetadata{LastWriteTime: mtime, FileSize: size}
	}
	return entries, nil
}

// Update performs a read-modify-write of a single file's entry, preserving
// every untouched entry, per spec.md §4.D. It must only be called from the
// single-threaded engine, never from inside a worker-pool task (spec.md §5).
func Update(file string, projectCacheDir string, meta FileMetadata) error {
	entries, err := Load(projectCacheDir)
	if err != nil && !ymerrors.HasKind(err, ymerrors.KindCacheMiss) {
		return err
	}
	if entries == nil {
		entries = map[string]FileMetadata{}
	}
	entries[file] = meta
	return writeAll(projectCacheDir, entries)
}

// NeedsRecompile reports whether path must be recompiled: absent from the
// cache, or its current size or mtime differs from the cached value, per
// the three-way OR in spec.md §4.D.
func NeedsRecompile(path string, cache map[string]FileMetadata) (bool, error) {
	cached, ok := cache[path]
	if !ok {
		return true, nil
	}
	size, err := fsutil.GetSize(path)
	if err != nil {
		return false, err
	}
	mtime, err := fsutil.GetLastWrite(path)
	if err != nil {
		return false, err
	}
	return size != cached.FileSize || mtime != cached.LastWriteTime, nil
}

func writeAll(projectCacheDir string, entries map[string]FileMetadata) error {
	if err := fsutil.CreateDir(projectCacheDir); err != nil {
		return err
	}
	cachePath := metadataPath(projectCacheDir)

	paths := make([]string, 0, len(entries))
	for p := range entries {
		paths = append(paths, p)
	}
	// Sorted so that two builds over an unchanged file set produce a
	// byte-identical cache file (spec.md §8's "metadata.cache byte-identical"
	// property) regardless of Go's randomized map iteration order.
	sort.Strings(paths)

	var b strings.Builder
	for _, p := range paths {
		meta := entries[p]
		fmt.Fprintf(&b, "%s %d %d\n", p, meta.LastWriteTime, meta.FileSize)
	}
	if err := os.WriteFile(cachePath, []byte(b.String()), 0o644); err != nil {
		return ymerrors.Fs("write metadata cache", cachePath, err)
	}
	return nil
}
