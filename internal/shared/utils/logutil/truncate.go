package logutil

import "unicode/utf8"

// TruncateForLog keeps at most maxRunes runes of s and marks the cut with
// "...". Rune boundaries are respected so log lines stay valid UTF-8.
func TruncateForLog(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return "..."
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
