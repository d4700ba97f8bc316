package project

import (
	"strings"
)

// MacroExpand replaces every $(NAME) occurrence in s with env[NAME]
// (unquoted); unknown names expand to the empty string, per spec.md §4.B.
// It is idempotent whenever env's values contain no further $() sequences.
func MacroExpand(s string, env map[string]string) string {
	var out strings.Builder
	out.Grow(len(s))

	for i := 0; i < len(s); {
		if s[i] == '$' && i+1 < len(s) && s[i+1] == '(' {
			end := strings.IndexByte(s[i+2:], ')')
			if end < 0 {
				out.WriteByte(s[i])
				i++
				continue
			}
			name := s[i+2 : i+2+end]
			out.WriteString(env[name])
			i = i + 2 + end + 1
			continue
		}
		out.WriteByte(s[i])
		i++
	}
	return out.String()
}

// MacroExpandAll applies MacroExpand to every element of ss, returning a new
// slice.
func MacroExpandAll(ss []string, env map[string]string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = MacroExpand(s, env)
	}
	return out
}

// builtinEnv returns a copy of userEnv overridden by the four built-in
// macros YM_PROJECT_NAME, YM_CURRENT_DIR, YM_SRC_DIR, YM_BUILD_DIR, per
// spec.md §4.B: these are set after reading the user's env file and always
// win over a same-named user entry.
func builtinEnv(userEnv map[string]string, projectName, currentDir, srcDir, buildDir string) map[string]string {
	env := make(map[string]string, len(userEnv)+4)
	for k, v := range userEnv {
		env[k] = v
	}
	env["YM_PROJECT_NAME"] = projectName
	env["YM_CURRENT_DIR"] = currentDir
	env["YM_SRC_DIR"] = srcDir
	env["YM_BUILD_DIR"] = buildDir
	return env
}
