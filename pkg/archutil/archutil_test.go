package archutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymake-build/ymake/pkg/ymerrors"
)

type fakeRunner struct {
	available map[string]bool
	fail      map[string]bool
	calls     []string
}

func (f *fakeRunner) Probe(name string, _ ...string) bool {
	return f.available[name]
}

func (f *fakeRunner) Run(name string, args ...string) (string, int, error) {
	f.calls = append(f.calls, name)
	if f.fail[name] {
		return "boom", 1, assertErr{}
	}
	return "", 0, nil
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

func TestArchivePrefersAr(t *testing.T) {
	r := &fakeRunner{available: map[string]bool{"ar": true, "lib": true}}
	require.NoError(t, Archive(r, []string{"a.o"}, "out.a"))
	assert.Equal(t, []string{"ar"}, r.calls)
}

func TestArchiveFallsBackToLib(t *testing.T) {
	r := &fakeRunner{available: map[string]bool{"lib": true}}
	require.NoError(t, Archive(r, []string{"a.o"}, "out.lib"))
	assert.Equal(t, []string{"lib"}, r.calls)
}

func TestArchiveNoneAvailableReturnsToolMissing(t *testing.T) {
	r := &fakeRunner{available: map[string]bool{}}
	err := Archive(r, []string{"a.o"}, "out.a")
	assert.True(t, ymerrors.HasKind(err, ymerrors.KindToolMissing))
}

func TestGenerateDefPrefersGendef(t *testing.T) {
	r := &fakeRunner{available: map[string]bool{"gendef": true}}
	byGendef, err := GenerateDef(r, "x.dll", "x.def")
	require.NoError(t, err)
	assert.True(t, byGendef)
}

func TestGenerateImportLibFallsBackToLib(t *testing.T) {
	r := &fakeRunner{available: map[string]bool{"lib": true}}
	require.NoError(t, GenerateImportLib(r, "x.def", "x.lib", "x.dll"))
	assert.Equal(t, []string{"lib"}, r.calls)
}
