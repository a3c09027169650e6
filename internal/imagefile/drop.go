package imagefile

import (
	"net/url"
	"os"
	"strings"
)

// PathFromDrop turns text pasted into the terminal by a file drop into a
// local path. Terminals paste dropped files as a quoted path, a path with
// backslash-escaped spaces, or a file:// URI. It reports false unless the
// result names an existing regular file.
func PathFromDrop(text string) (string, bool) {
	candidate := strings.TrimSpace(text)
	if candidate == "" || strings.ContainsAny(candidate, "\r\n") {
		return "", false
	}

	if len(candidate) >= 2 {
		first, last := candidate[0], candidate[len(candidate)-1]
		if (first == '\'' || first == '"') && first == last {
			candidate = candidate[1 : len(candidate)-1]
		}
	}

	if strings.HasPrefix(candidate, "file://") {
		u, err := url.Parse(candidate)
		if err != nil || (u.Host != "" && u.Host != "localhost") {
			return "", false
		}
		candidate = u.Path
	} else {
		candidate = unescapeShell(candidate)
	}

	info, err := os.Stat(candidate)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return candidate, true
}

// unescapeShell removes backslash escapes ("My\ Shot.png").
func unescapeShell(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	if escaped {
		b.WriteRune('\\')
	}
	return b.String()
}
