package validitycache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymake-build/ymake/pkg/project"
)

func writeManifest(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("[hello]\nsrc=./s\n"), 0o644))
}

func sampleProjects(t *testing.T) []*project.Project {
	t.Helper()
	p, err := project.NewProject(project.RawManifestProject{
		Name:        "hello",
		Langs:       []project.Lang{project.CPP},
		CppCompiler: "g++",
		Src:         "./s",
	}, "/work")
	require.NoError(t, err)
	return []*project.Project{p}
}

func TestWriteAllThenIsValid(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "ymake.ini")
	writeManifest(t, manifest)
	cacheRoot := filepath.Join(dir, "cache")

	require.NoError(t, WriteAll(cacheRoot, manifest, sampleProjects(t)))

	valid, reason := IsValid(cacheRoot, manifest)
	assert.True(t, valid, "reason: %s", reason)
}

func TestIsValidFalseWhenManifestEdited(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "ymake.ini")
	writeManifest(t, manifest)
	cacheRoot := filepath.Join(dir, "cache")
	require.NoError(t, WriteAll(cacheRoot, manifest, sampleProjects(t)))

	// Bump mtime and change size to simulate an edit.
	later := time.Now().Add(2 * time.Hour)
	require.NoError(t, os.WriteFile(manifest, []byte("[hello]\nsrc=./s\nextra=1\n"), 0o644))
	require.NoError(t, os.Chtimes(manifest, later, later))

	valid, reason := IsValid(cacheRoot, manifest)
	assert.False(t, valid)
	assert.Equal(t, "edit", reason)
}

func TestIsValidFalseWhenStale(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "ymake.ini")
	writeManifest(t, manifest)
	cacheRoot := filepath.Join(dir, "cache")
	require.NoError(t, WriteAll(cacheRoot, manifest, sampleProjects(t)))

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.WriteFile(filepath.Join(cacheRoot, timestampFileName), []byte(old.Local().Format(isoLayout)+"\n"), 0o644))

	valid, reason := IsValid(cacheRoot, manifest)
	assert.False(t, valid)
	assert.Equal(t, "age", reason)
}

func TestLoadAllRoundTrip(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "ymake.ini")
	writeManifest(t, manifest)
	cacheRoot := filepath.Join(dir, "cache")
	projects := sampleProjects(t)
	require.NoError(t, WriteAll(cacheRoot, manifest, projects))

	loaded, err := LoadAll(cacheRoot)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, projects[0].Name, loaded[0].Name)
}

func TestIsValidFalseWhenConfigCacheMissing(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "ymake.ini")
	writeManifest(t, manifest)

	valid, reason := IsValid(filepath.Join(dir, "cache"), manifest)
	assert.False(t, valid)
	assert.Equal(t, "edit", reason)
}
