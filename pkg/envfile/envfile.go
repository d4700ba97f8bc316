// Package envfile parses the KEY=VALUE environment files consulted during
// project macro expansion, per spec.md §4.B/§6. Values may be
// double-quoted; outer quotes are stripped and there are no escapes. Lines
// without '=' are skipped. A YAML-formatted override file is also accepted
// (detected by extension), supplementing the plain KEY=VALUE format the way
// SPEC_FULL.md §4 describes.
package envfile

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ymake-build/ymake/pkg/ymerrors"
)

// Load reads path and returns its KEY=VALUE pairs. A missing path is not an
// error: it returns an empty map, since an env file is optional per
// spec.md §3 (Project.Env "optional path to an environment file").
func Load(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, ymerrors.Fs("read env file", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".yaml") || strings.EqualFold(filepath.Ext(path), ".yml") {
		return loadYAML(data, path)
	}
	return loadKeyValue(data), nil
}

func loadYAML(data []byte, path string) (map[string]string, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, ymerrors.Fs("parse yaml env file", path, err)
	}
	if raw == nil {
		raw = map[string]string{}
	}
	return raw, nil
}

func loadKeyValue(data []byte) map[string]string {
	env := map[string]string{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		value := strings.TrimSpace(line[eq+1:])
		value = unquote(value)
		env[key] = value
	}
	return env
}

func unquote(value string) string {
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		return value[1 : len(value)-1]
	}
	return value
}
