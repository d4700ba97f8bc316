package engine

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymake-build/ymake/pkg/buildcontext"
	"github.com/ymake-build/ymake/pkg/project"
)

func countingOSCommand(t *testing.T) (*OSCommand, func() int) {
	t.Helper()
	osc := NewOSCommand(testLog())
	count := 0
	osc.SetCommand(func(name string, args ...string) *exec.Cmd {
		count++
		return exec.Command(name, args...)
	})
	return osc, func() int { return count }
}

func freshBuildProject(t *testing.T) (*buildcontext.Context, *project.Project, string) {
	t.Helper()
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "s")
	writeFile(t, filepath.Join(srcDir, "a.cpp"), "// a")
	writeFile(t, filepath.Join(srcDir, "b.cpp"), "// b")

	ctx := buildcontext.New(filepath.Join(dir, "cache"), false, "test")
	proj, err := project.NewProject(project.RawManifestProject{
		Name:        "hello",
		Langs:       []project.Lang{project.CPP},
		CppCompiler: "true",
		Src:         srcDir,
		BuildDir:    filepath.Join(dir, "build"),
	}, dir)
	require.NoError(t, err)
	return ctx, proj, srcDir
}

func TestBuildProjectColdBuildCompilesEveryFile(t *testing.T) {
	ctx, proj, _ := freshBuildProject(t)
	osc, calls := countingOSCommand(t)

	_, _, err := BuildProject(ctx, osc, proj, project.DEBUG, false)
	require.NoError(t, err)
	// two files, each preprocessed then compiled, plus one link invocation.
	assert.Equal(t, 5, calls())
}

func TestBuildProjectWarmRebuildSkipsUnchangedFiles(t *testing.T) {
	ctx, proj, _ := freshBuildProject(t)
	osc, _ := countingOSCommand(t)
	_, _, err := BuildProject(ctx, osc, proj, project.DEBUG, false)
	require.NoError(t, err)

	osc2, calls2 := countingOSCommand(t)
	_, _, err = BuildProject(ctx, osc2, proj, project.DEBUG, false)
	require.NoError(t, err)
	// only the final link should run; no compiles.
	assert.Equal(t, 1, calls2())
}

func TestBuildProjectOneEditRecompilesOnlyThatFile(t *testing.T) {
	ctx, proj, srcDir := freshBuildProject(t)
	osc, _ := countingOSCommand(t)
	_, _, err := BuildProject(ctx, osc, proj, project.DEBUG, false)
	require.NoError(t, err)

	later := time.Now().Add(2 * time.Hour)
	aPath := filepath.Join(srcDir, "a.cpp")
	require.NoError(t, os.WriteFile(aPath, []byte("// a changed"), 0o644))
	require.NoError(t, os.Chtimes(aPath, later, later))

	osc2, calls2 := countingOSCommand(t)
	_, _, err = BuildProject(ctx, osc2, proj, project.DEBUG, false)
	require.NoError(t, err)
	// a.cpp preprocessed + compiled, plus one link; b.cpp reused untouched.
	assert.Equal(t, 3, calls2())
}

func TestBuildProjectReleaseForcesFullRebuild(t *testing.T) {
	ctx, proj, _ := freshBuildProject(t)
	osc, _ := countingOSCommand(t)
	_, _, err := BuildProject(ctx, osc, proj, project.DEBUG, false)
	require.NoError(t, err)

	osc2, calls2 := countingOSCommand(t)
	_, _, err = BuildProject(ctx, osc2, proj, project.RELEASE, false)
	require.NoError(t, err)
	assert.Equal(t, 5, calls2())
}

func TestRemoveAllCacheThenBuildBehavesLikeCold(t *testing.T) {
	ctx, proj, _ := freshBuildProject(t)
	osc, _ := countingOSCommand(t)
	_, _, err := BuildProject(ctx, osc, proj, project.DEBUG, false)
	require.NoError(t, err)

	require.NoError(t, RemoveAllCache(ctx))

	osc2, calls2 := countingOSCommand(t)
	_, _, err = BuildProject(ctx, osc2, proj, project.DEBUG, false)
	require.NoError(t, err)
	assert.Equal(t, 5, calls2())
}
