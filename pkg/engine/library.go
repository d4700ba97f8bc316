package engine

import (
	"path/filepath"

	"github.com/ymake-build/ymake/pkg/buildcontext"
	"github.com/ymake-build/ymake/pkg/fsutil"
	"github.com/ymake-build/ymake/pkg/project"
	"github.com/ymake-build/ymake/pkg/toolchain"
	"github.com/ymake-build/ymake/pkg/workerpool"
	"github.com/ymake-build/ymake/pkg/ymerrors"
)

// buildLibrary implements spec.md §4.G phase 2: enumerate lib's sources,
// compile every file in RELEASE mode regardless of the project's current
// mode, join, then package the result per lib.Type. It returns the absolute
// path of the produced archive/shared-library artifact. tracker records
// each source file's DISCOVERED/COMPILED/ERRORED transitions and the
// library's own LINKED transition once packaging succeeds.
func buildLibrary(ctx *buildcontext.Context, osc *OSCommand, proj *project.Project, lib project.Library, tracker *Tracker) (string, error) {
	if lib.Type == project.EXECUTABLE {
		return "", ymerrors.Config(proj.Name, "library \""+lib.Name+"\" may not have type EXECUTABLE")
	}

	libCacheDir := filepath.Join(ctx.ProjectCacheDir(proj.Name), lib.Name)
	files, err := fsutil.GetSrcFilesRecursive(lib.Path)
	if err != nil {
		return "", err
	}

	pool := workerpool.New()
	var objects []string
	for _, f := range files {
		file := f
		tracker.Set(file, Discovered)
		pool.Run(func() {
			obj, err := CompileFile(osc, proj, file, libCacheDir, project.RELEASE, lib.Type, false, lib.Include)
			pool.Lock()
			if err != nil {
				tracker.Set(file, Errored)
				pool.RecordError(err)
			} else {
				tracker.Set(file, Compiled)
				objects = append(objects, obj)
			}
			pool.Unlock()
		})
	}
	if err := pool.JoinAll(); err != nil {
		return "", err
	}

	lang := primaryLang(proj)
	family := proj.CompilerFamilyFor(lang)
	dialect := toolchain.DialectFor(family)
	outputBase := filepath.Join(libCacheDir, lib.Name)

	artifact, err := packageArtifact(osc, proj.CompilerFor(lang), family, dialect, objects, nil, nil, nil, lib.Type, outputBase)
	if err != nil {
		tracker.Set(lib.Name, Errored)
		return "", err
	}
	tracker.Set(lib.Name, Linked)
	return artifact, nil
}
