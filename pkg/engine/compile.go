package engine

import (
	"errors"
	"strings"

	"github.com/google/shlex"
	"github.com/mgutz/str"

	"github.com/ymake-build/ymake/pkg/fsutil"
	"github.com/ymake-build/ymake/pkg/project"
	"github.com/ymake-build/ymake/pkg/toolchain"
	"github.com/ymake-build/ymake/pkg/ymerrors"
)

// langForFile classifies file's extension as C or CPP. Any extension not in
// fsutil.SourceExtensions must already have been excluded from enumeration
// by the caller (spec.md's "unknown extension" boundary behavior), so
// anything reaching here that isn't ".c" is treated as CPP.
func langForFile(file string) project.Lang {
	if strings.HasSuffix(file, ".c") {
		return project.C
	}
	return project.CPP
}

// CompileFile compiles one translation unit, per spec.md §4.G's compileFile
// contract. inProjectContext adds proj.IncludeDirs to the command line;
// extraIncludeDir (typically a Library's own Include) is always added when
// non-empty. It returns the absolute path of the produced object file.
func CompileFile(osc *OSCommand, proj *project.Project, file, destDir string, mode project.Mode, kind project.BuildType, inProjectContext bool, extraIncludeDir string) (string, error) {
	lang := langForFile(file)
	if !proj.HasLang(lang) {
		return "", ymerrors.Config(proj.Name, "source "+file+" has no matching entry in langs")
	}

	compiler := proj.CompilerFor(lang)
	if compiler == "" {
		return "", ymerrors.Config(proj.Name, "no compiler configured for "+lang.String())
	}
	family := proj.CompilerFamilyFor(lang)
	dialect := toolchain.DialectFor(family)

	if err := fsutil.CreateDir(destDir); err != nil {
		return "", err
	}
	objPath := DeriveObjectPath(destDir, file, family)

	var includeDirs []string
	if inProjectContext {
		includeDirs = append(includeDirs, proj.IncludeDirs...)
	}
	if extraIncludeDir != "" {
		includeDirs = append(includeDirs, extraIncludeDir)
	}

	var sb strings.Builder
	sb.WriteString(compiler)
	sb.WriteByte(' ')

	// PIC applies only when the artifact kind requires it, and only for
	// families other than CLANG and MSVC, per spec.md §4.G's compileFile
	// contract.
	needsPIC := kind == project.SHARED_LIB
	if needsPIC && family != toolchain.CLANG && family != toolchain.MSVC {
		sb.WriteString(dialect.PIC())
	}
	sb.WriteString(dialect.CompileOnly())
	sb.WriteString(file)
	sb.WriteByte(' ')

	if lang == project.CPP {
		sb.WriteString(dialect.CppStd(proj.CppStd))
	} else {
		sb.WriteString(dialect.CStd(proj.CStd))
	}
	for _, dir := range includeDirs {
		sb.WriteString(dialect.IncludeDir(dir))
	}
	for _, define := range proj.Defines(mode) {
		sb.WriteString(dialect.Define(define))
	}
	for _, flag := range proj.Flags(mode) {
		// flagsDebug/flagsRelease are verbatim, user-quoted strings (spec.md
		// §3); shlex handles the POSIX quoting a user would write for a
		// value containing spaces, unlike mgutz/str's simpler splitter used
		// for the command line as a whole below.
		tokens, err := shlex.Split(flag)
		if err != nil || len(tokens) == 0 {
			tokens = []string{flag}
		}
		for _, tok := range tokens {
			sb.WriteString(tok)
			sb.WriteByte(' ')
		}
	}
	sb.WriteString(dialect.Optimization(proj.Optimization(mode)))
	sb.WriteString(dialect.OutputFile(objPath))

	argv := str.ToArgv(sb.String())
	out, code, err := osc.Run(argv[0], argv[1:]...)
	if err != nil {
		return "", ymerrors.Compile(file, code, errors.New(strings.TrimSpace(out)))
	}
	return objPath, nil
}
