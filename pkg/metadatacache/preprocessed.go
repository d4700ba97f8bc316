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

// PreprocessedMetadata is the size-only record kept alongside metadata.cache
// for preprocessed intermediates, per spec.md §4.D. The original never uses
// these sizes to invalidate compilation (see DESIGN.md's header-dependency
// Open Question); this cache exists purely as a parallel bookkeeping record.
type PreprocessedMetadata struct {
	FileSize int64
}

const preprocessedFileName = "preprocessed_metadata.cache"

func preprocessedPath(projectCacheDir string) string {
	return filepath.Join(projectCacheDir, preprocessedFileName)
}

// LoadPreprocessed reads the preprocessed-metadata cache, behaving like Load
// for a missing or corrupt file.
func LoadPreprocessed(projectCacheDir string) (map[string]PreprocessedMetadata, error) {
	path := preprocessedPath(projectCacheDir)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]PreprocessedMetadata{}, ymerrors.CacheMiss(path)
	}
	if err != nil {
		return nil, ymerrors.Fs("read preprocessed metadata cache", path, err)
	}

	entries := map[string]PreprocessedMetadata{}
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, ymerrors.CacheCorrupt(path, fmt.Errorf("expected 2 fields, got %d: %q", len(fields), line))
		}
		size, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, ymerrors.CacheCorrupt(path, err)
		}
		entries[fields[0]] = PreprocessedMetadata{FileSize: size}
	}
	return entries, nil
}

// UpdatePreprocessed records the current size of the preprocessed
// intermediate for file, regenerated whenever NeedsRecompile(file) is true,
// per spec.md §4.D.
func UpdatePreprocessed(file string, projectCacheDir string, ippPath string) error {
	entries, err := LoadPreprocessed(projectCacheDir)
	if err != nil && !ymerrors.HasKind(err, ymerrors.KindCacheMiss) {
		return err
	}
	if entries == nil {
		entries = map[string]PreprocessedMetadata{}
	}
	size, err := fsutil.GetSize(ippPath)
	if err != nil {
		return err
	}
	entries[file] = PreprocessedMetadata{FileSize: size}

	if err := fsutil.CreateDir(projectCacheDir); err != nil {
		return err
	}
	paths := make([]string, 0, len(entries))
	for p := range entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, p := range paths {
		fmt.Fprintf(&b, "%s %d\n", p, entries[p].FileSize)
	}
	cachePath := preprocessedPath(projectCacheDir)
	if err := os.WriteFile(cachePath, []byte(b.String()), 0o644); err != nil {
		return ymerrors.Fs("write preprocessed metadata cache", cachePath, err)
	}
	return nil
}
