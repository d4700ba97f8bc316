package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymake-build/ymake/pkg/project"
	"github.com/ymake-build/ymake/pkg/toolchain"
	"github.com/ymake-build/ymake/pkg/ymerrors"
)

func sampleProject(t *testing.T, compiler string) *project.Project {
	t.Helper()
	p, err := project.NewProject(project.RawManifestProject{
		Name:        "hello",
		Langs:       []project.Lang{project.CPP},
		CppCompiler: compiler,
		Src:         "./s",
	}, t.TempDir())
	require.NoError(t, err)
	return p
}

func TestCompileFileSuccessReturnsDeterministicPath(t *testing.T) {
	osc := NewOSCommand(testLog())
	proj := sampleProject(t, "true")
	destDir := t.TempDir()
	source := filepath.Join(t.TempDir(), "a.cpp")

	obj1, err := CompileFile(osc, proj, source, destDir, project.DEBUG, project.EXECUTABLE, true, "")
	require.NoError(t, err)
	obj2, err := CompileFile(osc, proj, source, destDir, project.DEBUG, project.EXECUTABLE, true, "")
	require.NoError(t, err)
	assert.Equal(t, obj1, obj2)
	assert.Equal(t, DeriveObjectPath(destDir, source, toolchain.DetectFamily("true")), obj1)
}

func TestCompileFileNonZeroExitReturnsCompileError(t *testing.T) {
	osc := NewOSCommand(testLog())
	proj := sampleProject(t, "false")
	destDir := t.TempDir()
	source := filepath.Join(t.TempDir(), "a.cpp")

	_, err := CompileFile(osc, proj, source, destDir, project.DEBUG, project.EXECUTABLE, true, "")
	assert.True(t, ymerrors.HasKind(err, ymerrors.KindCompile))
}

func TestCompileFileUnknownLangIsConfigError(t *testing.T) {
	osc := NewOSCommand(testLog())
	proj := sampleProject(t, "true")
	destDir := t.TempDir()
	source := filepath.Join(t.TempDir(), "a.c") // project only declares CPP

	_, err := CompileFile(osc, proj, source, destDir, project.DEBUG, project.EXECUTABLE, true, "")
	assert.True(t, ymerrors.HasKind(err, ymerrors.KindConfig))
}
