// Package ymerrors defines the error taxonomy shared by every YMake
// component: a closed set of kinds (ConfigError, FsError, CacheMissError,
// CacheCorruptError, ToolMissingError, CompileError, BuildError) that the
// engine can test for with xerrors.As, plus stack-trace capture for the
// top-level CLI to print on a fatal exit.
package ymerrors

import (
	"fmt"

	goerrors "github.com/go-errors/errors"
	"golang.org/x/xerrors"
)

// Kind is a closed enumeration of the error taxonomy from spec §7.
type Kind int

const (
	_ Kind = iota
	KindConfig
	KindFs
	KindCacheMiss
	KindCacheCorrupt
	KindToolMissing
	KindCompile
	KindBuild
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "ConfigError"
	case KindFs:
		return "FsError"
	case KindCacheMiss:
		return "CacheMissError"
	case KindCacheCorrupt:
		return "CacheCorruptError"
	case KindToolMissing:
		return "ToolMissingError"
	case KindCompile:
		return "CompileError"
	case KindBuild:
		return "BuildError"
	default:
		return "UnknownError"
	}
}

// CodedError carries a Kind alongside a message and optional wrapped cause,
// adapted from the teacher's ComplexError/xerrors.Frame pairing so callers
// can both test the kind via HasKind and print a caller frame.
type CodedError struct {
	Kind    Kind
	Message string
	Cause   error
	frame   xerrors.Frame
}

func newCoded(kind Kind, message string, cause error) CodedError {
	return CodedError{Kind: kind, Message: message, Cause: cause, frame: xerrors.Caller(2)}
}

// FormatError implements xerrors.Formatter.
func (e CodedError) FormatError(p xerrors.Printer) error {
	p.Printf("%s: %s", e.Kind, e.Message)
	e.frame.Format(p)
	return e.Cause
}

// Format implements fmt.Formatter for %+v stack-trace printing.
func (e CodedError) Format(f fmt.State, c rune) {
	xerrors.FormatError(e, f, c)
}

func (e CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e CodedError) Unwrap() error { return e.Cause }

// HasKind reports whether err is (or wraps) a CodedError of the given kind,
// mirroring the teacher's commands.HasErrorCode helper.
func HasKind(err error, kind Kind) bool {
	var coded CodedError
	if xerrors.As(err, &coded) {
		return coded.Kind == kind
	}
	return false
}

// Config reports a semantically invalid manifest/project.
func Config(project, rule string) error {
	return newCoded(KindConfig, fmt.Sprintf("project %q: %s", project, rule), nil)
}

// Fs wraps a filesystem operation failure.
func Fs(op, path string, cause error) error {
	return newCoded(KindFs, fmt.Sprintf("%s %q", op, path), cause)
}

// CacheMiss reports an expected cache file that does not exist.
func CacheMiss(path string) error {
	return newCoded(KindCacheMiss, fmt.Sprintf("no cache at %q", path), nil)
}

// CacheCorrupt reports a cache file that exists but could not be parsed.
func CacheCorrupt(path string, cause error) error {
	return newCoded(KindCacheCorrupt, fmt.Sprintf("malformed cache %q", path), cause)
}

// ToolMissing reports that no usable tool satisfied a probe chain.
func ToolMissing(need string, tried []string) error {
	return newCoded(KindToolMissing, fmt.Sprintf("%s: tried %v, none available", need, tried), nil)
}

// Compile reports a non-zero exit from a compile/link/archive invocation.
func Compile(sourcePath string, exitCode int, cause error) error {
	return newCoded(KindCompile, fmt.Sprintf("%q exited %d", sourcePath, exitCode), cause)
}

// Build composes one or more phase failures into a single reported error,
// the way the engine aborts a build after draining a worker-pool phase.
type BuildErrorList struct {
	Phase  string
	Errors []error
}

func (b *BuildErrorList) Error() string {
	return fmt.Sprintf("build failed in phase %q (%d error(s)): %s", b.Phase, len(b.Errors), b.Errors[0])
}

func (b *BuildErrorList) Unwrap() []error { return b.Errors }

// Build wraps a non-empty slice of phase errors into a BuildErrorList, or
// returns nil if errs is empty.
func Build(phase string, errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &BuildErrorList{Phase: phase, Errors: errs}
}

// Wrap attaches a stack trace the way the teacher's commands.WrapError does,
// for the top-level CLI to print on a fatal, unexpected error.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, 1)
}
