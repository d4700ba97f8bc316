// Package ymlog sets up structured logging for the build engine, ported
// from the teacher's pkg/log.NewLogger: a *logrus.Entry preloaded with
// static fields, JSON-formatted, split between a verbose development mode
// and a quiet production mode.
package ymlog

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Options configures the logger the way a BuildContext would pass through
// CLI flags; kept separate from buildcontext so ymlog has no dependency on
// the rest of the module.
type Options struct {
	Debug     bool
	Version   string
	CacheRoot string
}

// New returns a *logrus.Entry pre-loaded with static fields, mirroring the
// teacher's log.NewLogger(config, rollrusHook) minus the rollrus reporting
// hook (out of scope: remote error reporting is a CLI-layer concern).
func New(opts Options) *logrus.Entry {
	var log *logrus.Logger
	if opts.Debug || os.Getenv("YMAKE_DEBUG") == "TRUE" {
		log = newDevelopmentLogger(opts)
	} else {
		log = newProductionLogger()
	}

	log.Formatter = &logrus.JSONFormatter{}

	return log.WithFields(logrus.Fields{
		"debug":   opts.Debug,
		"version": opts.Version,
	})
}

func getLogLevel() logrus.Level {
	strLevel := os.Getenv("YMAKE_LOG_LEVEL")
	level, err := logrus.ParseLevel(strLevel)
	if err != nil {
		return logrus.DebugLevel
	}
	return level
}

func newDevelopmentLogger(opts Options) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(getLogLevel())

	if opts.CacheRoot == "" {
		log.Out = os.Stderr
		return log
	}

	file, err := os.OpenFile(filepath.Join(opts.CacheRoot, "ymake-debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		log.Out = os.Stderr
		return log
	}
	log.SetOutput(file)
	return log
}

func newProductionLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	log.SetLevel(logrus.ErrorLevel)
	return log
}
