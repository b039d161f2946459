package discovery

import (
	"path/filepath"
	"strings"

	"psr/internal/config"
)

// Filter filters scenarios by a name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps scenarios whose title or spec file name matches the
// pattern. Patterns support * and ? wildcards; a pattern without wildcards
// is a case-insensitive substring.
func (f *Filter) FilterByName(scenarios []config.Scenario, pattern string) []config.Scenario {
	if pattern == "" {
		return scenarios
	}

	var filtered []config.Scenario
	for _, s := range scenarios {
		if matches(pattern, s.Title) || (s.File != "" && matches(pattern, filepath.Base(s.File))) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func matches(pattern, name string) bool {
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	lowerName := strings.ToLower(name)
	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(lowerName, strings.ToLower(pattern))
	}

	// "*Payment*" style: every literal part must appear, in order
	hasPart := false
	rest := lowerName
	for _, part := range strings.Split(strings.ToLower(pattern), "*") {
		if part == "" {
			continue
		}
		if strings.Contains(part, "?") {
			return false
		}
		i := strings.Index(rest, part)
		if i < 0 {
			return false
		}
		rest = rest[i+len(part):]
		hasPart = true
	}
	return hasPart
}
