package toolchain

import "fmt"

// Dialect exposes the named, per-family flags from spec.md §6's table.
// There are exactly two dialects: POSIX-ish (GCC/Clang/ICC share spellings)
// and MSVC.
type Dialect interface {
	CompileOnly() string
	OutputFile(path string) string
	IncludeDir(dir string) string
	LibraryDir(dir string) string
	LinkLibrary(name string) string
	Define(macro string) string
	Optimization(level int) string
	PreprocessOnly() string
	PIC() string
	BuildShared() string
	SuppressOutput(windows bool) string
	CStd(level int) string
	CppStd(level int) string
}

// DialectFor returns the Dialect for a compiler family: the MSVC dialect for
// MSVC and the POSIX dialect for every other family, including NONE and
// UNKNOWN. It never fails; toolchain descriptors are immutable value objects
// with no error state.
func DialectFor(f Family) Dialect {
	if f == MSVC {
		return msvcDialect{}
	}
	return posixDialect{}
}

type posixDialect struct{}

func (posixDialect) CompileOnly() string            { return "-c " }
func (posixDialect) OutputFile(path string) string  { return fmt.Sprintf("-o %s ", path) }
func (posixDialect) IncludeDir(dir string) string   { return fmt.Sprintf("-I%s ", dir) }
func (posixDialect) LibraryDir(dir string) string   { return fmt.Sprintf("-L%s ", dir) }
func (posixDialect) LinkLibrary(name string) string { return fmt.Sprintf("-l%s ", name) }
func (posixDialect) Define(macro string) string     { return fmt.Sprintf("-D%s ", macro) }
func (posixDialect) PreprocessOnly() string         { return "-E " }
func (posixDialect) PIC() string                    { return "-fPIC " }
func (posixDialect) BuildShared() string             { return "-shared " }
func (posixDialect) CStd(level int) string          { return fmt.Sprintf("-std=c%d ", level) }
func (posixDialect) CppStd(level int) string         { return fmt.Sprintf("-std=c++%d ", level) }

func (posixDialect) Optimization(level int) string {
	switch level {
	case 0, 1, 2, 3:
		return fmt.Sprintf("-O%d ", level)
	default:
		return "-O0 "
	}
}

func (posixDialect) SuppressOutput(windows bool) string {
	if windows {
		return " > NUL 2>&1"
	}
	return " > /dev/null 2>&1"
}

type msvcDialect struct{}

func (msvcDialect) CompileOnly() string            { return "/c " }
func (msvcDialect) OutputFile(path string) string  { return fmt.Sprintf("/Fo%s ", path) }
func (msvcDialect) IncludeDir(dir string) string   { return fmt.Sprintf("/I%s ", dir) }
func (msvcDialect) LibraryDir(dir string) string   { return fmt.Sprintf("/LIBPATH:%s ", dir) }
func (msvcDialect) LinkLibrary(name string) string { return fmt.Sprintf("%s ", name) }
func (msvcDialect) Define(macro string) string     { return fmt.Sprintf("/D%s ", macro) }
func (msvcDialect) PreprocessOnly() string         { return "/P " }
func (msvcDialect) PIC() string                    { return "" } // no MSVC equivalent, per spec.md §4.C
func (msvcDialect) BuildShared() string             { return "/DLL " }
func (msvcDialect) CStd(int) string                 { return "" } // MSVC has no C-standard flag
func (msvcDialect) CppStd(level int) string         { return fmt.Sprintf("/std:c++%d ", level) }

func (msvcDialect) Optimization(level int) string {
	switch level {
	case 0:
		return "/Od "
	case 1:
		return "/O1 "
	case 2:
		return "/O2 "
	default:
		return "/Ox "
	}
}

func (msvcDialect) SuppressOutput(bool) string {
	return " /nologo > NUL 2>&1"
}
