package archutil

import (
	"errors"
	"os"
	"strings"

	"github.com/ymake-build/ymake/pkg/ymerrors"
)

// GenerateDef produces a .def file at defPath describing dllPath's exports,
// probing gendef, then dumpbin /exports, then pexports, per spec.md §4.G's
// Windows shared-library packaging. generatedByGendef reports whether
// gendef specifically produced it, since the caller must remove only that
// intermediate afterward.
func GenerateDef(osc Runner, dllPath, defPath string) (generatedByGendef bool, err error) {
	tried := make([]string, 0, 3)

	tried = append(tried, "gendef")
	if osc.Probe("gendef", "--version") {
		out, code, err := osc.Run("gendef", dllPath)
		if err != nil {
			return false, ymerrors.Compile(dllPath, code, errAugment(out, err))
		}
		return true, nil
	}

	tried = append(tried, "dumpbin")
	if osc.Probe("dumpbin", "/?") {
		out, code, err := osc.Run("dumpbin", "/exports", dllPath)
		if err != nil {
			return false, ymerrors.Compile(dllPath, code, errAugment(out, err))
		}
		if err := os.WriteFile(defPath, []byte(out), 0o644); err != nil {
			return false, ymerrors.Fs("write def file", defPath, err)
		}
		return false, nil
	}

	tried = append(tried, "pexports")
	if osc.Probe("pexports", "--version") {
		out, code, err := osc.Run("pexports", dllPath)
		if err != nil {
			return false, ymerrors.Compile(dllPath, code, errAugment(out, err))
		}
		if err := os.WriteFile(defPath, []byte(out), 0o644); err != nil {
			return false, ymerrors.Fs("write def file", defPath, err)
		}
		return false, nil
	}

	return false, ymerrors.ToolMissing("def generator", tried)
}

// GenerateImportLib produces libPath from defPath, probing dlltool, then
// lib /DEF:, then a GCC/llvm-ar fallback pair, per spec.md §4.G.
func GenerateImportLib(osc Runner, defPath, libPath, dllPath string) error {
	tried := make([]string, 0, 4)

	tried = append(tried, "dlltool")
	if osc.Probe("dlltool", "--version") {
		out, code, err := osc.Run("dlltool", "-d", defPath, "-l", libPath)
		if err != nil {
			return ymerrors.Compile(libPath, code, errAugment(out, err))
		}
		return nil
	}

	tried = append(tried, "lib")
	if osc.Probe("lib", "/?") {
		out, code, err := osc.Run("lib", "/DEF:"+defPath, "/OUT:"+libPath)
		if err != nil {
			return ymerrors.Compile(libPath, code, errAugment(out, err))
		}
		return nil
	}

	tried = append(tried, "gcc")
	if osc.Probe("gcc", "--version") {
		out, code, err := osc.Run("gcc", "-shared", defPath, "-o", libPath)
		if err != nil {
			return ymerrors.Compile(libPath, code, errAugment(out, err))
		}
		return nil
	}

	tried = append(tried, "llvm-ar")
	if osc.Probe("llvm-ar", "--version") {
		out, code, err := osc.Run("llvm-ar", "rcs", libPath, defPath)
		if err != nil {
			return ymerrors.Compile(libPath, code, errAugment(out, err))
		}
		return nil
	}

	return ymerrors.ToolMissing("import-lib generator", tried)
}

func errAugment(out string, cause error) error {
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return cause
	}
	return errors.New(trimmed)
}
