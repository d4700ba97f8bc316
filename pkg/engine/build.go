// Package engine implements Component G from spec.md §4.G: the build
// engine that discovers libraries, dispatches parallel compilation through
// the thread pool, and links the final artifact, reporting structured
// errors throughout.
package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ymake-build/ymake/pkg/buildcontext"
	"github.com/ymake-build/ymake/pkg/fsutil"
	"github.com/ymake-build/ymake/pkg/metadatacache"
	"github.com/ymake-build/ymake/pkg/project"
	"github.com/ymake-build/ymake/pkg/validitycache"
	"github.com/ymake-build/ymake/pkg/workerpool"
	"github.com/ymake-build/ymake/pkg/ymerrors"
)

// ParseManifest is the external collaborator that turns a manifest file
// into raw, unexpanded project records plus the directory macros resolve
// relative to. The manifest format itself is out of scope per spec.md §1.
type ParseManifest func(manifestPath string) (rawProjects []project.RawManifestProject, currentDir string, err error)

// LoadOrBuildProjectIndex is the `loadOrBuildProjectIndex` boundary
// function from spec.md §6: it reuses the manifest-validity cache when
// fresh, and otherwise calls parse and rewrites the cache.
func LoadOrBuildProjectIndex(ctx *buildcontext.Context, manifestPath string, parse ParseManifest) ([]*project.Project, error) {
	if valid, _ := validitycache.IsValid(ctx.CacheRoot, manifestPath); valid {
		if projects, err := validitycache.LoadAll(ctx.CacheRoot); err == nil {
			return projects, nil
		}
	}

	rawProjects, currentDir, err := parse(manifestPath)
	if err != nil {
		return nil, err
	}

	projects := make([]*project.Project, 0, len(rawProjects))
	for _, raw := range rawProjects {
		p, err := project.NewProject(raw, currentDir)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}

	if err := validitycache.WriteAll(ctx.CacheRoot, manifestPath, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// RemoveAllCache implements the `removeAllCache` boundary function: after
// it returns, the next build behaves as if run on a machine that has never
// built this project, per spec.md §8.
func RemoveAllCache(ctx *buildcontext.Context) error {
	return fsutil.RemoveTree(ctx.CacheRoot)
}

// DescribeProject implements the `describeProject` boundary function: a
// human-readable summary of one project's configuration.
func DescribeProject(proj *project.Project) string {
	return fmt.Sprintf(
		"%s v%s (%s, %d lib(s), src=%s, buildDir=%s)",
		proj.Name, proj.Version, proj.BuildType, len(proj.Libs), proj.Src, proj.BuildDir,
	)
}

// BuildProject implements the `buildProject` public entry point and its
// five phases from spec.md §4.G.
func BuildProject(ctx *buildcontext.Context, osc *OSCommand, proj *project.Project, mode project.Mode, cleanBuild bool) (string, time.Duration, error) {
	start := time.Now()
	tracker := NewTracker()

	projectCacheDir := ctx.ProjectCacheDir(proj.Name)

	// Phase 1: Prepare.
	if err := fsutil.CreateDir(proj.BuildDir); err != nil {
		return "", 0, err
	}
	trustCache := !cleanBuild && mode != project.RELEASE && fsutil.DirExists(projectCacheDir)
	if !trustCache {
		if err := fsutil.RemoveTree(projectCacheDir); err != nil {
			return "", 0, err
		}
	}

	// Phase 2: Libraries (always RELEASE, regardless of proj's mode).
	compiledLibs := make([]string, 0, len(proj.Libs))
	for _, lib := range proj.Libs {
		artifact, err := buildLibrary(ctx, osc, proj, lib, tracker)
		if err != nil {
			return "", time.Since(start), ymerrors.Build("libraries", []error{err})
		}
		compiledLibs = append(compiledLibs, artifact)
	}

	// Phase 3: Project sources — partition into needsRecompile / reuse.
	files, err := fsutil.GetSrcFilesRecursive(proj.Src)
	if err != nil {
		return "", time.Since(start), err
	}
	srcCacheDir := filepath.Join(projectCacheDir, "src")

	var cache map[string]metadatacache.FileMetadata
	if trustCache {
		cache, err = metadatacache.Load(projectCacheDir)
		if err != nil && !ymerrors.HasKind(err, ymerrors.KindCacheMiss) && !ymerrors.HasKind(err, ymerrors.KindCacheCorrupt) {
			return "", time.Since(start), err
		}
	}
	if cache == nil {
		cache = map[string]metadatacache.FileMetadata{}
	}

	var needsRecompile, reuseObjects []string
	for _, f := range files {
		tracker.Set(f, Discovered)
		if !trustCache {
			needsRecompile = append(needsRecompile, f)
			continue
		}
		dirty, err := metadatacache.NeedsRecompile(f, cache)
		if err != nil {
			tracker.Set(f, Errored)
			return "", time.Since(start), err
		}
		if dirty {
			needsRecompile = append(needsRecompile, f)
			continue
		}
		family := proj.CompilerFamilyFor(langForFile(f))
		reuseObjects = append(reuseObjects, DeriveObjectPath(srcCacheDir, f, family))
		// Already compiled in a previous run; its cached object is reused
		// as-is, so it is COMPILED from this build's perspective too.
		tracker.Set(f, Compiled)
	}

	// Phase 4: Parallel compile of needsRecompile.
	pool := workerpool.New()
	var compiledFiles []string
	for _, f := range needsRecompile {
		file := f

		// Metadata (and preprocessed-record) writes happen single-threaded
		// in the engine, before the file's task is dispatched, per
		// spec.md §5's shared-state discipline.
		size, err := fsutil.GetSize(file)
		if err != nil {
			return "", time.Since(start), err
		}
		mtime, err := fsutil.GetLastWrite(file)
		if err != nil {
			return "", time.Since(start), err
		}
		if err := metadatacache.Update(file, projectCacheDir, metadatacache.FileMetadata{LastWriteTime: mtime, FileSize: size}); err != nil {
			return "", time.Since(start), err
		}
		if ippPath, err := PreprocessFile(osc, proj, file, srcCacheDir, mode); err == nil {
			_ = metadatacache.UpdatePreprocessed(file, projectCacheDir, ippPath)
		}

		pool.Run(func() {
			obj, err := CompileFile(osc, proj, file, srcCacheDir, mode, proj.BuildType, true, "")
			pool.Lock()
			if err != nil {
				tracker.Set(file, Errored)
				pool.RecordError(err)
			} else {
				tracker.Set(file, Compiled)
				compiledFiles = append(compiledFiles, obj)
			}
			pool.Unlock()
		})
	}
	if err := pool.JoinAll(); err != nil {
		return "", time.Since(start), ymerrors.Build("compile", []error{err})
	}

	// Phase 5: Final link.
	objects := append(append([]string{}, reuseObjects...), compiledFiles...)
	output, linkElapsed, err := LinkEverything(osc, proj, objects, compiledLibs, mode)
	if err != nil {
		return "", time.Since(start), ymerrors.Build("link", []error{err})
	}

	// Every source file and library that reached COMPILED/LINKED is now
	// part of the linked artifact.
	for _, f := range files {
		tracker.Set(f, Linked)
	}
	for _, lib := range proj.Libs {
		tracker.Set(lib.Name, Linked)
	}
	ctx.Log.Debugf("%s: %d artifact(s) linked", proj.Name, tracker.CountIn(Linked))

	elapsed := time.Since(start)
	if info, statErr := os.Stat(output); statErr == nil {
		ctx.Log.Infof("built %s (%s) in %s (link %s)", output, humanize.Bytes(uint64(info.Size())), elapsed, linkElapsed)
	} else {
		ctx.Log.Infof("built %s in %s (link %s)", output, elapsed, linkElapsed)
	}
	return output, elapsed, nil
}
