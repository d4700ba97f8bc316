package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/ymake-build/ymake/pkg/toolchain"
)

// ObjectExtension returns the object-file suffix for family, per spec.md
// §3 ("or .obj for MSVC").
func ObjectExtension(family toolchain.Family) string {
	if family == toolchain.MSVC {
		return ".obj"
	}
	return ".o"
}

// DeriveObjectPath computes the deterministic object-file path for
// sourcePath under destDir, per spec.md §3's
// "<basename>_<hash>.o" naming scheme. The hash is a stable,
// non-cryptographic digest of the absolute source path so repeated builds
// over an unchanged file set produce byte-identical linker input lists.
func DeriveObjectPath(destDir, sourcePath string, family toolchain.Family) string {
	sum := xxhash.Sum64String(sourcePath)
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	name := fmt.Sprintf("%s_%x%s", base, sum, ObjectExtension(family))
	return filepath.Join(destDir, name)
}
