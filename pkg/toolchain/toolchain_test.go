package toolchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFamilyCaseInsensitive(t *testing.T) {
	for _, name := range []string{"CLANG++", "clang++", "Clang++", "clang++.exe"} {
		assert.Equal(t, CLANG, DetectFamily(name), name)
	}
}

func TestDetectFamilyTable(t *testing.T) {
	scenarios := map[string]Family{
		"":          NONE,
		"gcc":       GCC,
		"g++":       GCC,
		"gnu":       GCC,
		"gnu gcc":   GCC,
		"clang":     CLANG,
		"icc":       ICC,
		"intel c++": ICC,
		"cl":        MSVC,
		"msvc":      MSVC,
		"cl++":      MSVC,
		"rustc":     UNKNOWN,
	}
	for name, want := range scenarios {
		assert.Equal(t, want, DetectFamily(name), name)
	}
}

func TestPICEmptyOnMSVC(t *testing.T) {
	assert.Equal(t, "", DialectFor(MSVC).PIC())
	assert.NotEqual(t, "", DialectFor(GCC).PIC())
}

func TestOptimizationLevels(t *testing.T) {
	posix := DialectFor(GCC)
	assert.Equal(t, "-O0 ", posix.Optimization(0))
	assert.Equal(t, "-O3 ", posix.Optimization(3))

	msvc := DialectFor(MSVC)
	assert.Equal(t, "/Od ", msvc.Optimization(0))
	assert.Equal(t, "/Ox ", msvc.Optimization(3))
}
