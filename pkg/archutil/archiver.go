// Package archutil implements the archiver and Windows import-library tool
// probe chains from spec.md §4.G: a small set of external packaging tools,
// each probed for availability (by running it with a version flag and
// inspecting its exit status) before being invoked for real.
package archutil

import (
	"github.com/ymake-build/ymake/pkg/ymerrors"
)

// Runner is the subset of engine.OSCommand archutil depends on, kept as a
// local interface so this package never imports engine.
type Runner interface {
	Probe(name string, versionArgs ...string) bool
	Run(name string, args ...string) (string, int, error)
}

type archiverTool struct {
	name        string
	versionArgs []string
	buildArgs   func(output string, objects []string) []string
}

// archiverChain is the ar -> lib -> llvm-ar probe order from spec.md §4.G's
// static-library packaging.
var archiverChain = []archiverTool{
	{
		name:        "ar",
		versionArgs: []string{"--version"},
		buildArgs: func(output string, objects []string) []string {
			return append([]string{"rcs", output}, objects...)
		},
	},
	{
		name:        "lib",
		versionArgs: []string{"/?"},
		buildArgs: func(output string, objects []string) []string {
			return append([]string{"/OUT:" + output}, objects...)
		},
	},
	{
		name:        "llvm-ar",
		versionArgs: []string{"--version"},
		buildArgs: func(output string, objects []string) []string {
			return append([]string{"rcs", output}, objects...)
		},
	},
}

// Archive packages objects into a static archive at output, probing ar,
// then lib (MSVC), then llvm-ar; the first available tool wins. It fails
// with ymerrors.ToolMissing if none are on PATH.
func Archive(osc Runner, objects []string, output string) error {
	tried := make([]string, 0, len(archiverChain))
	for _, tool := range archiverChain {
		tried = append(tried, tool.name)
		if !osc.Probe(tool.name, tool.versionArgs...) {
			continue
		}
		out, code, err := osc.Run(tool.name, tool.buildArgs(output, objects)...)
		if err != nil {
			return ymerrors.Compile(output, code, errAugment(out, err))
		}
		return nil
	}
	return ymerrors.ToolMissing("archiver", tried)
}
