package interceptor

import "strings"

// matchPattern reports whether name matches pattern using the grammar:
// exact | prefix* | *suffix | *contains*.
func matchPattern(pattern, name string) bool {
	switch {
	case pattern == "":
		return false
	case strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*") && len(pattern) > 1:
		return strings.Contains(name, pattern[1:len(pattern)-1])
	case strings.HasPrefix(pattern, "*"):
		return strings.HasSuffix(name, pattern[1:])
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(name, pattern[:len(pattern)-1])
	default:
		return pattern == name
	}
}

// matchesAny reports whether name matches any of the given patterns.
func matchesAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if matchPattern(p, name) {
			return true
		}
	}
	return false
}
