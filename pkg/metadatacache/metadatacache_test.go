package metadatacache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymake-build/ymake/pkg/ymerrors"
)

func writeSrcFile(t *testing.T, path string, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestCreateLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	a := filepath.Join(dir, "a.cpp")
	b := filepath.Join(dir, "b.cpp")
	when := time.Unix(1_700_000_000, 0)
	writeSrcFile(t, a, "aaa", when)
	writeSrcFile(t, b, "bb", when)

	require.NoError(t, Create([]string{a, b}, cacheDir))

	cache, err := Load(cacheDir)
	require.NoError(t, err)
	assert.Len(t, cache, 2)
	assert.EqualValues(t, 3, cache[a].FileSize)
	assert.EqualValues(t, 2, cache[b].FileSize)
}

func TestLoadMissingReturnsCacheMiss(t *testing.T) {
	cache, err := Load(filepath.Join(t.TempDir(), "nope"))
	assert.True(t, ymerrors.HasKind(err, ymerrors.KindCacheMiss))
	assert.Empty(t, cache)
}

func TestLoadCorruptReturnsCacheCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, metadataFileName), []byte("not-enough-fields\n"), 0o644))

	_, err := Load(dir)
	assert.True(t, ymerrors.HasKind(err, ymerrors.KindCacheCorrupt))
}

func TestNeedsRecompile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "a.cpp")
	when := time.Unix(1_700_000_000, 0)
	writeSrcFile(t, f, "aaa", when)

	cache := map[string]FileMetadata{f: {LastWriteTime: when.Unix(), FileSize: 3}}
	needs, err := NeedsRecompile(f, cache)
	require.NoError(t, err)
	assert.False(t, needs)

	// size changed
	writeSrcFile(t, f, "aaaa", when)
	needs, err = NeedsRecompile(f, cache)
	require.NoError(t, err)
	assert.True(t, needs)

	// absent from cache entirely
	needs, err = NeedsRecompile(filepath.Join(dir, "missing.cpp"), cache)
	require.NoError(t, err)
	assert.True(t, needs)
}

func TestMetadataCacheByteIdenticalAcrossNoOpRebuilds(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	a := filepath.Join(dir, "a.cpp")
	b := filepath.Join(dir, "b.cpp")
	when := time.Unix(1_700_000_000, 0)
	writeSrcFile(t, a, "aaa", when)
	writeSrcFile(t, b, "bb", when)

	require.NoError(t, Create([]string{a, b}, cacheDir))
	first, err := os.ReadFile(filepath.Join(cacheDir, metadataFileName))
	require.NoError(t, err)

	require.NoError(t, Create([]string{b, a}, cacheDir)) // reversed order, same set
	second, err := os.ReadFile(filepath.Join(cacheDir, metadataFileName))
	require.NoError(t, err)

	if !bytes.Equal(first, second) {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(first)),
			B:        difflib.SplitLines(string(second)),
			FromFile: "first",
			ToFile:   "second",
			Context:  2,
		})
		t.Fatalf("expected byte-identical metadata cache across rebuilds, diff:\n%s", diff)
	}
}
