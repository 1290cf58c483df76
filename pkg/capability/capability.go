package capability

import (
	"slices"
	"strings"
)

const (
	// Separator is used to separate multiple capability names in a string
	Separator = " "

	// Wildcard matches every capability name
	Wildcard = "*"

	// Delimiter separates capability name parts (e.g., "cart.add")
	Delimiter = "."
)

// Parse converts a space-separated string of capability names into a slice.
//
// Trims spaces and removes empty entries. Returns nil for empty input.
//
// Example:
//
//	names := capability.Parse("search cart.add checkout")
//	// Returns: []string{"search", "cart.add", "checkout"}
func Parse(s string) []string {
	if s == "" {
		return nil
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	parts := strings.Split(s, Separator)
	names := make([]string, 0, len(parts))

	for i := range parts {
		if parts[i] = strings.TrimSpace(parts[i]); parts[i] != "" {
			names = append(names, parts[i])
		}
	}

	return names
}

// Join converts a slice of capability names back to a space-separated string.
func Join(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return strings.Join(names, Separator)
}

// Matches checks if a capability name matches a pattern.
// It supports the global wildcard (*) and namespace wildcards (cart.*).
//
// Pattern matching rules:
// - Direct match: "search" matches "search"
// - Global wildcard: "*" matches any capability
// - Namespace wildcard: "cart.*" matches any capability starting with "cart."
func Matches(name, pattern string) bool {
	// Direct match or full wildcard
	if name == pattern || pattern == Wildcard {
		return true
	}

	// Handle wildcard suffix (e.g., "cart.*")
	if strings.HasSuffix(pattern, Wildcard) {
		prefix := strings.TrimSuffix(pattern, Wildcard)
		prefix = strings.TrimSuffix(prefix, Delimiter)
		return strings.HasPrefix(name, prefix+Delimiter)
	}

	return false
}

// Allowed checks if the allow-list permits a capability name.
//
// Supports wildcards and hierarchical matching.
//
// Example:
//
//	ok := capability.Allowed([]string{"cart.*", "search"}, "cart.add")
//	// Returns: true (because "cart.*" matches "cart.add")
func Allowed(allowList []string, name string) bool {
	for _, pattern := range allowList {
		if Matches(name, pattern) {
			return true
		}
	}
	return false
}

// AllowedAll checks if the allow-list permits every one of the given names.
//
// Returns true when names is empty or the allow-list carries the global wildcard.
func AllowedAll(allowList, names []string) bool {
	if len(names) == 0 {
		return true
	}
	if len(allowList) == 0 {
		return false
	}

	if slices.Contains(allowList, Wildcard) {
		return true
	}

	for _, name := range names {
		if !Allowed(allowList, name) {
			return false
		}
	}
	return true
}

// Normalize deduplicates and sorts a capability list, dropping empty entries.
// Useful before snapshotting an allow-list into a session or envelope.
func Normalize(names []string) []string {
	if len(names) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}

	slices.Sort(out)
	return out
}
