// Package validitycache implements Component E from spec.md §4.E: the
// whole-manifest validity predicate and the three on-disk files that back
// it (config.cache, timestamp.cache, projects.cache plus one <name>.cache
// per project), letting a build skip the manifest parse entirely when the
// cache is still trustworthy.
package validitycache

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ymake-build/ymake/pkg/fsutil"
	"github.com/ymake-build/ymake/pkg/project"
	"github.com/ymake-build/ymake/pkg/ymerrors"
)

// FreshnessThreshold is the 24-hour wall-clock age limit from spec.md §4.E.
const FreshnessThreshold = 24 * time.Hour

const isoLayout = "2006-01-02:15-04-05"

const (
	configFileName    = "config.cache"
	timestampFileName = "timestamp.cache"
	projectsFileName  = "projects.cache"
)

// IsValid implements the two-part validity predicate from spec.md §4.E.
// reason is a human-readable staleness cause ("edit" or "age") when valid
// is false, so the engine can log why it is falling back to a full parse.
func IsValid(cacheRoot, manifestPath string) (valid bool, reason string) {
	manifestAbs, err := fsutil.AbsoluteNormalized(manifestPath)
	if err != nil {
		return false, "edit"
	}

	configPath := filepath.Join(cacheRoot, configFileName)
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return false, "edit"
	}
	recordedPath, recordedMtimeISO, recordedSize, ok := parseConfigLine(string(configData))
	if !ok || recordedPath != manifestAbs {
		return false, "edit"
	}

	info, err := os.Stat(manifestAbs)
	if err != nil {
		return false, "edit"
	}
	currentMtimeISO := info.ModTime().Local().Format(isoLayout)
	if recordedMtimeISO != currentMtimeISO || recordedSize != info.Size() {
		return false, "edit"
	}

	timestampPath := filepath.Join(cacheRoot, timestampFileName)
	tsData, err := os.ReadFile(timestampPath)
	if err != nil {
		return false, "age"
	}
	writtenAt, err := time.ParseInLocation(isoLayout, strings.TrimSpace(string(tsData)), time.Local)
	if err != nil {
		return false, "age"
	}
	if time.Since(writtenAt) > FreshnessThreshold {
		return false, "age"
	}

	return true, ""
}

// WriteAll writes config.cache, timestamp.cache, projects.cache, and one
// serialized <name>.cache per project, per spec.md §6's cache layout.
func WriteAll(cacheRoot, manifestPath string, projects []*project.Project) error {
	if err := fsutil.CreateDir(cacheRoot); err != nil {
		return err
	}

	manifestAbs, err := fsutil.AbsoluteNormalized(manifestPath)
	if err != nil {
		return err
	}
	info, err := os.Stat(manifestAbs)
	if err != nil {
		return ymerrors.Fs("stat manifest", manifestAbs, err)
	}

	configLine := manifestAbs + " " + info.ModTime().Local().Format(isoLayout) + " " + strconv.FormatInt(info.Size(), 10) + "\n"
	if err := writeFile(cacheRoot, configFileName, configLine); err != nil {
		return err
	}

	if err := writeFile(cacheRoot, timestampFileName, time.Now().Local().Format(isoLayout)+"\n"); err != nil {
		return err
	}

	var names strings.Builder
	for _, p := range projects {
		names.WriteString(p.Name)
		names.WriteByte('\n')
		if err := writeFile(cacheRoot, p.Name+".cache", project.Serialize(p)); err != nil {
			return err
		}
	}
	return writeFile(cacheRoot, projectsFileName, names.String())
}

// LoadAll reads projects.cache then deserializes each named <name>.cache,
// letting the engine skip the manifest parse entirely when IsValid is true.
func LoadAll(cacheRoot string) ([]*project.Project, error) {
	projectsPath := filepath.Join(cacheRoot, projectsFileName)
	data, err := os.ReadFile(projectsPath)
	if os.IsNotExist(err) {
		return nil, ymerrors.CacheMiss(projectsPath)
	}
	if err != nil {
		return nil, ymerrors.Fs("read projects cache", projectsPath, err)
	}

	var projects []*project.Project
	for _, name := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if name == "" {
			continue
		}
		projectPath := filepath.Join(cacheRoot, name+".cache")
		projectData, err := os.ReadFile(projectPath)
		if err != nil {
			return nil, ymerrors.Fs("read project cache", projectPath, err)
		}
		p, err := project.Deserialize(projectPath, string(projectData))
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func writeFile(cacheRoot, name, content string) error {
	path := filepath.Join(cacheRoot, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return ymerrors.Fs("write cache file", path, err)
	}
	return nil
}

func parseConfigLine(line string) (path string, mtimeISO string, size int64, ok bool) {
	line = strings.TrimRight(line, "\n")
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return "", "", 0, false
	}
	size, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return "", "", 0, false
	}
	return fields[0], fields[1], size, true
}
