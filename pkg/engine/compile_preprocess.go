package engine

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/mgutz/str"

	"github.com/ymake-build/ymake/pkg/fsutil"
	"github.com/ymake-build/ymake/pkg/project"
	"github.com/ymake-build/ymake/pkg/toolchain"
	"github.com/ymake-build/ymake/pkg/ymerrors"
)

// PreprocessFile runs the toolchain's preprocess-only pass for file,
// writing the result under destDir and returning its path. The engine
// calls this once per dirty file, single-threaded, to keep
// metadatacache.UpdatePreprocessed's write off the worker pool per
// spec.md §5's "writes happen from the single-threaded engine" rule.
func PreprocessFile(osc *OSCommand, proj *project.Project, file, destDir string, mode project.Mode) (string, error) {
	lang := langForFile(file)
	compiler := proj.CompilerFor(lang)
	family := proj.CompilerFamilyFor(lang)
	dialect := toolchain.DialectFor(family)

	if err := fsutil.CreateDir(destDir); err != nil {
		return "", err
	}
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	ippPath := filepath.Join(destDir, base+".ipp")

	var sb strings.Builder
	sb.WriteString(compiler)
	sb.WriteByte(' ')
	sb.WriteString(dialect.PreprocessOnly())
	sb.WriteString(file)
	sb.WriteByte(' ')
	for _, dir := range proj.IncludeDirs {
		sb.WriteString(dialect.IncludeDir(dir))
	}
	for _, define := range proj.Defines(mode) {
		sb.WriteString(dialect.Define(define))
	}
	sb.WriteString(dialect.OutputFile(ippPath))

	argv := str.ToArgv(sb.String())
	out, code, err := osc.Run(argv[0], argv[1:]...)
	if err != nil {
		return "", ymerrors.Compile(file, code, errors.New(strings.TrimSpace(out)))
	}
	return ippPath, nil
}
