package engine

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mgutz/str"

	"github.com/ymake-build/ymake/pkg/archutil"
	"github.com/ymake-build/ymake/pkg/fsutil"
	"github.com/ymake-build/ymake/pkg/project"
	"github.com/ymake-build/ymake/pkg/toolchain"
	"github.com/ymake-build/ymake/pkg/ymerrors"
)

// OutputExtension maps a build type and GOOS value to the artifact suffix
// from spec.md §6's output-file-extensions table.
func OutputExtension(buildType project.BuildType, goos string) string {
	switch buildType {
	case project.STATIC_LIB:
		if goos == "windows" {
			return ".lib"
		}
		return ".a"
	case project.SHARED_LIB:
		switch goos {
		case "windows":
			return ".dll"
		case "darwin":
			return ".dylib"
		default:
			return ".so"
		}
	default:
		if goos == "windows" {
			return ".exe"
		}
		return ""
	}
}

// primaryLang picks the compiler/family used for linking: CPP wins over C
// when both are declared, since a mixed-language link must invoke the
// compiler that knows how to drive the C++ runtime.
func primaryLang(proj *project.Project) project.Lang {
	if proj.HasLang(project.CPP) {
		return project.CPP
	}
	return project.C
}

// packageArtifact turns a set of object files into the final artifact for
// buildType (archive, shared library + Windows import-lib, or executable),
// per spec.md §4.G phases 2c and 5, which share this same procedure.
func packageArtifact(osc *OSCommand, compiler string, family toolchain.Family, dialect toolchain.Dialect, objects, libDirs, sysLibs, preBuiltLibs []string, buildType project.BuildType, outputBase string) (string, error) {
	ext := OutputExtension(buildType, runtime.GOOS)
	output := outputBase + ext
	if err := fsutil.CreateDir(filepath.Dir(output)); err != nil {
		return "", err
	}

	if buildType == project.STATIC_LIB {
		if err := archutil.Archive(osc, objects, output); err != nil {
			return "", err
		}
		return output, nil
	}

	var sb strings.Builder
	sb.WriteString(compiler)
	sb.WriteByte(' ')
	for _, o := range objects {
		sb.WriteString(o)
		sb.WriteByte(' ')
	}
	if buildType == project.SHARED_LIB {
		sb.WriteString(dialect.BuildShared())
	}
	for _, d := range libDirs {
		sb.WriteString(dialect.LibraryDir(d))
	}
	for _, l := range sysLibs {
		sb.WriteString(dialect.LinkLibrary(l))
	}
	for _, p := range preBuiltLibs {
		sb.WriteString(p)
		sb.WriteByte(' ')
	}
	sb.WriteString(dialect.OutputFile(output))

	argv := str.ToArgv(sb.String())
	out, code, err := osc.Run(argv[0], argv[1:]...)
	if err != nil {
		return "", ymerrors.Compile(output, code, errors.New(strings.TrimSpace(out)))
	}

	if buildType == project.SHARED_LIB && runtime.GOOS == "windows" && family != toolchain.GCC {
		defPath := outputBase + ".def"
		libPath := outputBase + ".lib"
		generatedByGendef, err := archutil.GenerateDef(osc, output, defPath)
		if err != nil {
			return "", err
		}
		if err := archutil.GenerateImportLib(osc, defPath, libPath, output); err != nil {
			return "", err
		}
		if generatedByGendef {
			os.Remove(defPath)
		}
	}
	return output, nil
}

// LinkEverything performs phase 5 from spec.md §4.G: the final link of a
// project's own compiled sources, reused objects, and compiled/pre-built
// libraries into the project's declared BuildType artifact.
func LinkEverything(osc *OSCommand, proj *project.Project, objects, compiledLibs []string, mode project.Mode) (string, time.Duration, error) {
	lang := primaryLang(proj)
	compiler := proj.CompilerFor(lang)
	family := proj.CompilerFamilyFor(lang)
	dialect := toolchain.DialectFor(family)

	preBuilt := make([]string, 0, len(compiledLibs)+len(proj.PreBuiltLibs))
	preBuilt = append(preBuilt, compiledLibs...)
	preBuilt = append(preBuilt, proj.PreBuiltLibs...)

	outputBase := filepath.Join(proj.BuildDir, proj.Name)

	start := time.Now()
	output, err := packageArtifact(osc, compiler, family, dialect, objects, nil, proj.SysLibs, preBuilt, proj.BuildType, outputBase)
	elapsed := time.Since(start)
	return output, elapsed, err
}
