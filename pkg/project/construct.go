package project

import (
	"github.com/samber/lo"

	"github.com/ymake-build/ymake/pkg/envfile"
	"github.com/ymake-build/ymake/pkg/fsutil"
	"github.com/ymake-build/ymake/pkg/ymerrors"
)

// RawManifestProject is what the (external, out-of-scope) manifest parser
// hands to NewProject: field names mirror Project but nothing has been
// defaulted, validated, or macro-expanded yet.
type RawManifestProject struct {
	Name    string
	Version string

	Langs []Lang

	CStd   int
	CppStd int

	CCompiler   string
	CppCompiler string

	BuildType BuildType

	BuildDir string
	Src      string
	Env      string

	IncludeDirs  []string
	Libs         []RawManifestLibrary
	PreBuiltLibs []string
	SysLibs      []string

	DefinesDebug   []string
	DefinesRelease []string

	OptimizationDebug   int
	OptimizationRelease int

	FlagsDebug   []string
	FlagsRelease []string
}

// RawManifestLibrary mirrors Library before macro expansion/normalization.
type RawManifestLibrary struct {
	Name    string
	Path    string
	Include string
	Type    BuildType
}

const (
	defaultVersion    = "0.0.1"
	defaultCStd       = 11
	defaultCppStd     = 14
	defaultBuildDir   = "./build"
)

// NewProject validates raw, applies defaults, and macro-expands every
// string field using env plus the four YM_* built-ins, per spec.md §4.B.
// The returned Project is frozen: the build engine treats it as read-only
// from this point on (spec.md §3's Lifecycle).
func NewProject(raw RawManifestProject, currentDir string) (*Project, error) {
	version := raw.Version
	if version == "" {
		version = defaultVersion
	}
	cStd := raw.CStd
	if cStd == 0 {
		cStd = defaultCStd
	}
	cppStd := raw.CppStd
	if cppStd == 0 {
		cppStd = defaultCppStd
	}
	buildDir := raw.BuildDir
	if buildDir == "" {
		buildDir = defaultBuildDir
	}

	if raw.Src == "" {
		return nil, ymerrors.Config(raw.Name, "src is required")
	}
	if len(raw.Langs) == 0 {
		return nil, ymerrors.Config(raw.Name, "langs must be non-empty")
	}
	for _, lang := range raw.Langs {
		if lang == C && raw.CCompiler == "" {
			return nil, ymerrors.Config(raw.Name, "cCompiler is required when C is in langs")
		}
		if lang == CPP && raw.CppCompiler == "" {
			return nil, ymerrors.Config(raw.Name, "cppCompiler is required when CPP is in langs")
		}
	}
	for _, lib := range raw.Libs {
		if lib.Type == EXECUTABLE {
			return nil, ymerrors.Config(raw.Name, "library \""+lib.Name+"\" may not have type EXECUTABLE")
		}
	}

	userEnv, err := envfile.Load(raw.Env)
	if err != nil {
		return nil, err
	}
	env := builtinEnv(userEnv, raw.Name, currentDir, raw.Src, buildDir)

	expand := func(s string) string { return MacroExpand(s, env) }
	expandAll := func(ss []string) []string { return MacroExpandAll(ss, env) }

	srcAbs, err := fsutil.AbsoluteNormalized(expand(raw.Src))
	if err != nil {
		return nil, err
	}
	buildDirAbs, err := fsutil.AbsoluteNormalized(expand(buildDir))
	if err != nil {
		return nil, err
	}

	includeDirs, err := absNormalizeAll(expandAll(raw.IncludeDirs))
	if err != nil {
		return nil, err
	}
	preBuiltLibs, err := absNormalizeAll(expandAll(raw.PreBuiltLibs))
	if err != nil {
		return nil, err
	}

	libs := make([]Library, len(raw.Libs))
	for i, rl := range raw.Libs {
		libPath, err := fsutil.AbsoluteNormalized(expand(rl.Path))
		if err != nil {
			return nil, err
		}
		libInclude := ""
		if expanded := expand(rl.Include); expanded != "" {
			libInclude, err = fsutil.AbsoluteNormalized(expanded)
			if err != nil {
				return nil, err
			}
		}
		libs[i] = Library{
			Name:    expand(rl.Name),
			Path:    libPath,
			Include: libInclude,
			Type:    rl.Type,
		}
	}

	p := &Project{
		Name:                expand(raw.Name),
		Version:             expand(version),
		Langs:               append([]Lang(nil), raw.Langs...),
		CStd:                cStd,
		CppStd:              cppStd,
		CCompiler:           expand(raw.CCompiler),
		CppCompiler:         expand(raw.CppCompiler),
		BuildType:           raw.BuildType,
		BuildDir:            buildDirAbs,
		Src:                 srcAbs,
		Env:                 raw.Env,
		IncludeDirs:         lo.Uniq(includeDirs),
		Libs:                libs,
		PreBuiltLibs:        lo.Uniq(preBuiltLibs),
		SysLibs:             lo.Uniq(expandAll(raw.SysLibs)),
		DefinesDebug:        expandAll(raw.DefinesDebug),
		DefinesRelease:      expandAll(raw.DefinesRelease),
		OptimizationDebug:   raw.OptimizationDebug,
		OptimizationRelease: raw.OptimizationRelease,
		FlagsDebug:          expandAll(raw.FlagsDebug),
		FlagsRelease:        expandAll(raw.FlagsRelease),
	}

	for _, lib := range p.Libs {
		lib.Normalize(p)
	}

	return p, nil
}

func absNormalizeAll(paths []string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		abs, err := fsutil.AbsoluteNormalized(p)
		if err != nil {
			return nil, err
		}
		out[i] = abs
	}
	return out, nil
}
