// Package toolchain implements Component C from spec.md §4.C: identifying
// a compiler family from its executable name and exposing a small,
// exhaustive set of named flags per family, in one of two dialects
// (POSIX-ish for GCC/Clang/ICC, MSVC-ish for cl). Tagged variants are used
// throughout instead of string-typed enums, per spec.md §9's design note.
package toolchain

import (
	"path/filepath"
	"strings"
)

// Family is a closed sum of recognized compiler families.
type Family int

const (
	NONE Family = iota
	UNKNOWN
	GCC
	CLANG
	ICC
	MSVC
)

func (f Family) String() string {
	switch f {
	case NONE:
		return "NONE"
	case GCC:
		return "GCC"
	case CLANG:
		return "CLANG"
	case ICC:
		return "ICC"
	case MSVC:
		return "MSVC"
	default:
		return "UNKNOWN"
	}
}

// DetectFamily classifies a compiler executable name, case-insensitively,
// per the table in spec.md §4.C.
func DetectFamily(executableName string) Family {
	trimmed := strings.TrimSpace(executableName)
	name := strings.ToLower(filepath.Base(trimmed))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if trimmed == "" {
		name = ""
	}
	switch {
	case name == "":
		return NONE
	case name == "clang" || name == "clang++":
		return CLANG
	case name == "icc" || name == "intel c++":
		return ICC
	case name == "gcc" || name == "gnu" || name == "g++" || name == "gnu gcc":
		return GCC
	case name == "cl" || name == "msvc" || name == "cl++":
		return MSVC
	default:
		return UNKNOWN
	}
}
