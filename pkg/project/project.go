// Package project implements Component B from spec.md §3/§4.B: the
// immutable, in-memory description of a buildable unit after parsing and
// env-macro expansion, plus its serialization for the manifest-validity
// cache.
package project

import (
	"github.com/samber/lo"

	"github.com/ymake-build/ymake/pkg/toolchain"
)

// Lang is a closed sum of the source languages a project may declare.
type Lang int

const (
	C Lang = iota
	CPP
)

func (l Lang) String() string {
	if l == CPP {
		return "CPP"
	}
	return "C"
}

// BuildType is a closed sum of artifact kinds a project (or a nested
// Library) can produce.
type BuildType int

const (
	EXECUTABLE BuildType = iota
	STATIC_LIB
	SHARED_LIB
)

func (b BuildType) String() string {
	switch b {
	case STATIC_LIB:
		return "STATIC_LIB"
	case SHARED_LIB:
		return "SHARED_LIB"
	default:
		return "EXECUTABLE"
	}
}

// Library is a project-nested buildable subtree, compiled from source and
// linked into its parent project, per spec.md §3's Library record.
type Library struct {
	Name    string
	Path    string
	Include string
	Type    BuildType
}

// Normalize appends Include to parent.IncludeDirs if non-empty and not
// already present, per spec.md §3's Library invariant. It replaces
// parent.IncludeDirs in place with a new, de-duplicated slice and returns
// nothing.
func (lib Library) Normalize(parent *Project) {
	if lib.Include == "" {
		return
	}
	parent.IncludeDirs = lo.Uniq(append(parent.IncludeDirs, lib.Include))
}

// Project is one buildable unit, materialized from a manifest section plus
// expanded macros, per spec.md §3.
type Project struct {
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
	Libs         []Library
	PreBuiltLibs []string
	SysLibs      []string

	DefinesDebug   []string
	DefinesRelease []string

	OptimizationDebug   int
	OptimizationRelease int

	FlagsDebug   []string
	FlagsRelease []string
}

// Mode selects which of the *Debug/*Release fields apply to a compile.
type Mode int

const (
	DEBUG Mode = iota
	RELEASE
)

func (m Mode) String() string {
	if m == RELEASE {
		return "RELEASE"
	}
	return "DEBUG"
}

// Defines returns the mode-gated preprocessor macros.
func (p *Project) Defines(mode Mode) []string {
	if mode == RELEASE {
		return p.DefinesRelease
	}
	return p.DefinesDebug
}

// Optimization returns the mode-gated optimization level.
func (p *Project) Optimization(mode Mode) int {
	if mode == RELEASE {
		return p.OptimizationRelease
	}
	return p.OptimizationDebug
}

// Flags returns the mode-gated verbatim extra flags.
func (p *Project) Flags(mode Mode) []string {
	if mode == RELEASE {
		return p.FlagsRelease
	}
	return p.FlagsDebug
}

// HasLang reports whether lang is one of the project's declared languages.
func (p *Project) HasLang(lang Lang) bool {
	for _, l := range p.Langs {
		if l == lang {
			return true
		}
	}
	return false
}

// CompilerFor returns the configured compiler executable for lang.
func (p *Project) CompilerFor(lang Lang) string {
	if lang == CPP {
		return p.CppCompiler
	}
	return p.CCompiler
}

// CompilerFamilyFor resolves the toolchain family for lang's compiler.
func (p *Project) CompilerFamilyFor(lang Lang) toolchain.Family {
	return toolchain.DetectFamily(p.CompilerFor(lang))
}
