// Package buildcontext holds the explicit, passed-everywhere value that
// replaces process-wide globals (cache directory, logger, debug flag),
// per spec.md §9's "no process-wide mutable state" design note.
package buildcontext

import (
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ymake-build/ymake/pkg/ymlog"
)

// Context is passed explicitly to every component operation that needs to
// know where persisted state lives or where to log.
type Context struct {
	// CacheRoot is the root of the cache directory tree from spec.md §6.
	CacheRoot string
	Log       *logrus.Entry
	Debug     bool
}

// New builds a Context rooted at cacheRoot with a freshly configured logger.
func New(cacheRoot string, debug bool, version string) *Context {
	return &Context{
		CacheRoot: cacheRoot,
		Debug:     debug,
		Log: ymlog.New(ymlog.Options{
			Debug:     debug,
			Version:   version,
			CacheRoot: cacheRoot,
		}),
	}
}

// ProjectCacheDir returns <cacheRoot>/<projectName>, per spec.md §6's layout.
func (c *Context) ProjectCacheDir(projectName string) string {
	return filepath.Join(c.CacheRoot, projectName)
}
