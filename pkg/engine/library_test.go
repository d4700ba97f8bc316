package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymake-build/ymake/pkg/buildcontext"
	"github.com/ymake-build/ymake/pkg/project"
	"github.com/ymake-build/ymake/pkg/ymerrors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestBuildLibraryRejectsExecutableType(t *testing.T) {
	dir := t.TempDir()
	ctx := buildcontext.New(filepath.Join(dir, "cache"), false, "test")
	osc := NewOSCommand(testLog())
	proj := sampleProject(t, "true")

	_, err := buildLibrary(ctx, osc, proj, project.Library{Name: "bad", Path: dir, Type: project.EXECUTABLE}, NewTracker())
	assert.True(t, ymerrors.HasKind(err, ymerrors.KindConfig))
}

func TestBuildLibraryStaticPackagesWithArchiver(t *testing.T) {
	dir := t.TempDir()
	libDir := filepath.Join(dir, "libsrc")
	writeFile(t, filepath.Join(libDir, "a.cpp"), "// a")
	writeFile(t, filepath.Join(libDir, "b.cpp"), "// b")

	ctx := buildcontext.New(filepath.Join(dir, "cache"), false, "test")
	osc := NewOSCommand(testLog())
	// "true" stands in for the compiler and writes nothing, so the object
	// files are created up front at the paths CompileFile returns. Packaging
	// uses the first of ar, lib, llvm-ar found on PATH; the test is skipped
	// when none is.
	proj := sampleProject(t, "true")
	libCacheDir := filepath.Join(ctx.ProjectCacheDir(proj.Name), "mylib")
	for _, name := range []string{"a.cpp", "b.cpp"} {
		writeFile(t, DeriveObjectPath(libCacheDir, filepath.Join(libDir, name), proj.CompilerFamilyFor(project.CPP)), "obj")
	}

	tracker := NewTracker()
	artifact, err := buildLibrary(ctx, osc, proj, project.Library{Name: "mylib", Path: libDir, Type: project.STATIC_LIB}, tracker)
	if err != nil && ymerrors.HasKind(err, ymerrors.KindToolMissing) {
		t.Skip("no archiver available in this environment")
	}
	require.NoError(t, err)
	assert.NotEmpty(t, artifact)
	assert.Equal(t, Linked, tracker.Get("mylib"))
}
