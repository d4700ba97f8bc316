package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ymake-build/ymake/pkg/project"
	"github.com/ymake-build/ymake/pkg/ymerrors"
)

// manifestLibrary mirrors project.RawManifestLibrary in the on-disk YAML
// manifest format.
type manifestLibrary struct {
	Path    string `yaml:"path"`
	Include string `yaml:"include"`
	Type    string `yaml:"type"`
}

// manifestProject mirrors project.RawManifestProject in the on-disk YAML
// manifest format; the project name is the surrounding map key rather than
// a field, matching a typical multi-project manifest section layout.
type manifestProject struct {
	Version string   `yaml:"version"`
	Langs   []string `yaml:"langs"`

	CStd   int `yaml:"cStd"`
	CppStd int `yaml:"cppStd"`

	CCompiler   string `yaml:"cCompiler"`
	CppCompiler string `yaml:"cppCompiler"`

	BuildType string `yaml:"buildType"`

	BuildDir string `yaml:"buildDir"`
	Src      string `yaml:"src"`
	Env      string `yaml:"env"`

	IncludeDirs  []string                   `yaml:"includeDirs"`
	Libs         map[string]manifestLibrary `yaml:"libs"`
	PreBuiltLibs []string                   `yaml:"preBuiltLibs"`
	SysLibs      []string                   `yaml:"sysLibs"`

	DefinesDebug   []string `yaml:"definesDebug"`
	DefinesRelease []string `yaml:"definesRelease"`

	OptimizationDebug   int `yaml:"optimizationDebug"`
	OptimizationRelease int `yaml:"optimizationRelease"`

	FlagsDebug   []string `yaml:"flagsDebug"`
	FlagsRelease []string `yaml:"flagsRelease"`
}

// defaultManifestTemplate is the starting point `ymake --print-default-manifest`
// writes out, matching the one-project-per-section shape ParseManifest reads.
func defaultManifestTemplate() map[string]manifestProject {
	return map[string]manifestProject{
		"myapp": {
			Version:     "0.1.0",
			Langs:       []string{"CPP"},
			CppStd:      17,
			CppCompiler: "g++",
			BuildType:   "EXECUTABLE",
			BuildDir:    "build",
			Src:         "src",
			IncludeDirs: []string{"include"},
			Libs: map[string]manifestLibrary{
				"mylib": {
					Path:    "libs/mylib",
					Include: "libs/mylib/include",
					Type:    "STATIC_LIB",
				},
			},
			DefinesDebug:        []string{"DEBUG"},
			DefinesRelease:      []string{"NDEBUG"},
			OptimizationDebug:   0,
			OptimizationRelease: 2,
			FlagsDebug:          []string{"-g"},
			FlagsRelease:        []string{},
		},
	}
}

func parseLang(s string) (project.Lang, error) {
	switch s {
	case "C":
		return project.C, nil
	case "CPP", "C++", "CXX":
		return project.CPP, nil
	default:
		return 0, ymerrors.Config("", "unknown language "+s)
	}
}

func parseBuildType(s string) (project.BuildType, error) {
	switch s {
	case "", "EXECUTABLE":
		return project.EXECUTABLE, nil
	case "STATIC_LIB":
		return project.STATIC_LIB, nil
	case "SHARED_LIB":
		return project.SHARED_LIB, nil
	default:
		return 0, ymerrors.Config("", "unknown buildType "+s)
	}
}

// ParseManifest reads a YAML manifest of named project sections and
// returns the raw, unexpanded project records plus the directory their
// macros resolve relative to, matching engine.ParseManifest.
func ParseManifest(manifestPath string) ([]project.RawManifestProject, string, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, "", ymerrors.Fs("read manifest", manifestPath, err)
	}

	var doc map[string]manifestProject
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, "", ymerrors.CacheCorrupt(manifestPath, err)
	}

	raws := make([]project.RawManifestProject, 0, len(doc))
	for name, mp := range doc {
		langs := make([]project.Lang, 0, len(mp.Langs))
		for _, l := range mp.Langs {
			lang, err := parseLang(l)
			if err != nil {
				return nil, "", err
			}
			langs = append(langs, lang)
		}
		buildType, err := parseBuildType(mp.BuildType)
		if err != nil {
			return nil, "", err
		}

		libs := make([]project.RawManifestLibrary, 0, len(mp.Libs))
		for libName, ml := range mp.Libs {
			libType, err := parseBuildType(ml.Type)
			if err != nil {
				return nil, "", err
			}
			libs = append(libs, project.RawManifestLibrary{
				Name:    libName,
				Path:    ml.Path,
				Include: ml.Include,
				Type:    libType,
			})
		}

		raws = append(raws, project.RawManifestProject{
			Name:                name,
			Version:             mp.Version,
			Langs:               langs,
			CStd:                mp.CStd,
			CppStd:              mp.CppStd,
			CCompiler:           mp.CCompiler,
			CppCompiler:         mp.CppCompiler,
			BuildType:           buildType,
			BuildDir:            mp.BuildDir,
			Src:                 mp.Src,
			Env:                 mp.Env,
			IncludeDirs:         mp.IncludeDirs,
			Libs:                libs,
			PreBuiltLibs:        mp.PreBuiltLibs,
			SysLibs:             mp.SysLibs,
			DefinesDebug:        mp.DefinesDebug,
			DefinesRelease:      mp.DefinesRelease,
			OptimizationDebug:   mp.OptimizationDebug,
			OptimizationRelease: mp.OptimizationRelease,
			FlagsDebug:          mp.FlagsDebug,
			FlagsRelease:        mp.FlagsRelease,
		})
	}

	return raws, filepath.Dir(manifestPath), nil
}
