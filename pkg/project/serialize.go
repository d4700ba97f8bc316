package project

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/ymake-build/ymake/pkg/ymerrors"
)

// Serialize renders p as the newline-delimited, length-prefixed-vector
// format from spec.md §6: one line per scalar field, and for every vector
// field a count line followed by one line per element, in the fixed field
// order from spec.md §3. No field may contain an embedded newline after
// normalization, so each line round-trips byte-for-byte.
func Serialize(p *Project) string {
	var b strings.Builder
	w := &lineWriter{b: &b}

	w.field(p.Name)
	w.field(p.Version)
	w.intVector(langsToInts(p.Langs))
	w.intField(p.CStd)
	w.intField(p.CppStd)
	w.field(p.CCompiler)
	w.field(p.CppCompiler)
	w.intField(int(p.BuildType))
	w.field(p.BuildDir)
	w.field(p.Src)
	w.field(p.Env)
	w.vector(p.IncludeDirs)
	w.libVector(p.Libs)
	w.vector(p.PreBuiltLibs)
	w.vector(p.SysLibs)
	w.vector(p.DefinesDebug)
	w.vector(p.DefinesRelease)
	w.intField(p.OptimizationDebug)
	w.intField(p.OptimizationRelease)
	w.vector(p.FlagsDebug)
	w.vector(p.FlagsRelease)

	return b.String()
}

// Deserialize is the strict inverse of Serialize. Any structural deviation
// (wrong field count, unparsable integer, short vector) yields
// ymerrors.CacheCorrupt, per spec.md §4.B.
func Deserialize(source string, data string) (*Project, error) {
	r := &lineReader{scanner: bufio.NewScanner(strings.NewReader(data)), source: source}

	p := &Project{}
	p.Name = r.field()
	p.Version = r.field()
	p.Langs = intsToLangs(r.intVector())
	p.CStd = r.intField()
	p.CppStd = r.intField()
	p.CCompiler = r.field()
	p.CppCompiler = r.field()
	p.BuildType = BuildType(r.intField())
	p.BuildDir = r.field()
	p.Src = r.field()
	p.Env = r.field()
	p.IncludeDirs = r.vector()
	p.Libs = r.libVector()
	p.PreBuiltLibs = r.vector()
	p.SysLibs = r.vector()
	p.DefinesDebug = r.vector()
	p.DefinesRelease = r.vector()
	p.OptimizationDebug = r.intField()
	p.OptimizationRelease = r.intField()
	p.FlagsDebug = r.vector()
	p.FlagsRelease = r.vector()

	if r.err == nil && r.scanner.Scan() {
		r.err = ymerrors.CacheCorrupt(source, errTrailingData)
	}
	if r.err != nil {
		return nil, r.err
	}
	return p, nil
}

func langsToInts(langs []Lang) []int {
	out := make([]int, len(langs))
	for i, l := range langs {
		out[i] = int(l)
	}
	return out
}

func intsToLangs(ints []int) []Lang {
	out := make([]Lang, len(ints))
	for i, v := range ints {
		out[i] = Lang(v)
	}
	return out
}

// lineWriter appends one value per line to an underlying strings.Builder.
type lineWriter struct {
	b *strings.Builder
}

func (w *lineWriter) field(s string) {
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

func (w *lineWriter) intField(n int) {
	w.field(strconv.Itoa(n))
}

func (w *lineWriter) vector(items []string) {
	w.intField(len(items))
	for _, item := range items {
		w.field(item)
	}
}

func (w *lineWriter) intVector(items []int) {
	w.intField(len(items))
	for _, item := range items {
		w.intField(item)
	}
}

func (w *lineWriter) libVector(libs []Library) {
	w.intField(len(libs))
	for _, lib := range libs {
		w.field(lib.Name)
		w.field(lib.Path)
		w.field(lib.Include)
		w.intField(int(lib.Type))
	}
}

// lineReader is the strict inverse of lineWriter: the first structural
// error it sees short-circuits every subsequent read and is returned as
// ymerrors.CacheCorrupt by Deserialize.
type lineReader struct {
	scanner *bufio.Scanner
	source  string
	err     error
}

func (r *lineReader) next() string {
	if r.err != nil {
		return ""
	}
	if !r.scanner.Scan() {
		r.err = ymerrors.CacheCorrupt(r.source, errUnexpectedEOF)
		return ""
	}
	return r.scanner.Text()
}

func (r *lineReader) field() string {
	return r.next()
}

func (r *lineReader) intField() int {
	line := r.next()
	if r.err != nil {
		return 0
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		r.err = ymerrors.CacheCorrupt(r.source, err)
		return 0
	}
	return n
}

func (r *lineReader) vector() []string {
	count := r.intField()
	if r.err != nil {
		return nil
	}
	out := make([]string, count)
	for i := range out {
		out[i] = r.field()
	}
	return out
}

func (r *lineReader) intVector() []int {
	count := r.intField()
	if r.err != nil {
		return nil
	}
	out := make([]int, count)
	for i := range out {
		out[i] = r.intField()
	}
	return out
}

func (r *lineReader) libVector() []Library {
	count := r.intField()
	if r.err != nil {
		return nil
	}
	out := make([]Library, count)
	for i := range out {
		out[i] = Library{
			Name:    r.field(),
			Path:    r.field(),
			Include: r.field(),
			Type:    BuildType(r.intField()),
		}
	}
	return out
}

var errUnexpectedEOF = strconvError("unexpected end of serialized project")

var errTrailingData = strconvError("unexpected data after serialized project")

type strconvError string

func (e strconvError) Error() string { return string(e) }
