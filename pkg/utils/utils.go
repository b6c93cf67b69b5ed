package utils

import "strings"

// ErrJSON produces a standard JSON error response.
func ErrJSON(kind, msg string) map[string]any {
	out := map[string]any{"error": kind}
	if msg != "" {
		out["message"] = msg
	}
	return out
}

// CleanJSON removes markdown code blocks from a string to extract raw JSON.
func CleanJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		lines := strings.Split(s, "\n")
		if len(lines) >= 2 {
			if strings.HasPrefix(lines[0], "```") {
				lines = lines[1:]
			}
			if len(lines) > 0 && strings.HasPrefix(lines[len(lines)-1], "```") {
				lines = lines[:len(lines)-1]
			}
			s = strings.Join(lines, "\n")
		}
	}
	return strings.TrimSpace(s)
}

// ExtractJSONObject trims anything before the first '{' and after the last
// '}'. Models occasionally wrap their JSON in commentary despite
// instructions; this salvages the object without touching its interior.
// Returns the input unchanged when no braces are found.
func ExtractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}

// LimitStr returns a string truncated to n characters with "..." appended if longer.
func LimitStr(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// TruncateRunes cuts s to at most n runes at a rune boundary.
func TruncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
