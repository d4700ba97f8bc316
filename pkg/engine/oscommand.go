package engine

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// OSCommand wraps external process invocation behind an injectable factory,
// ported from the teacher's commands.OSCommand so compile/link/archive/probe
// invocations can be swapped for a fake *exec.Cmd factory in tests, per
// spec.md §5.7.
type OSCommand struct {
	Log     *logrus.Entry
	command func(string, ...string) *exec.Cmd
}

// NewOSCommand builds an OSCommand backed by the real exec.Command.
func NewOSCommand(log *logrus.Entry) *OSCommand {
	return &OSCommand{Log: log, command: exec.Command}
}

// SetCommand overrides the command factory. To be used for testing only.
func (c *OSCommand) SetCommand(cmd func(string, ...string) *exec.Cmd) {
	c.command = cmd
}

// NewCmd builds a *exec.Cmd for name/args through the injected factory,
// inheriting the current environment.
func (c *OSCommand) NewCmd(name string, args ...string) *exec.Cmd {
	cmd := c.command(name, args...)
	cmd.Env = os.Environ()
	return cmd
}

// Run executes name with args to completion and returns its combined
// output, its exit code (-1 if the process never started), and a non-nil
// error for anything but a clean exit.
func (c *OSCommand) Run(name string, args ...string) (string, int, error) {
	cmd := c.NewCmd(name, args...)
	before := time.Now()
	out, err := cmd.CombinedOutput()
	c.Log.Debug(fmt.Sprintf("%s %s: %s", name, strings.Join(args, " "), time.Since(before)))
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), exitErr.ExitCode(), err
		}
		return string(out), -1, err
	}
	return string(out), 0, nil
}

// Probe reports whether name is available on PATH by invoking it with
// versionArgs and inspecting its exit status, per spec.md §4.G's archiver
// and import-lib tool probing.
func (c *OSCommand) Probe(name string, versionArgs ...string) bool {
	_, _, err := c.Run(name, versionArgs...)
	return err == nil
}
