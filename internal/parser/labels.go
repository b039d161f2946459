package parser

import (
	"regexp"
	"strings"
)

// labelMatcher recognises spec titles that are recorder structure rather
// than steps.
type labelMatcher struct {
	exact      map[string]bool
	substrings []string
	patterns   []*regexp.Regexp
}

func newLabelMatcher(containers, labels []string) *labelMatcher {
	m := &labelMatcher{exact: make(map[string]bool, len(containers))}
	for _, c := range containers {
		m.exact[strings.TrimSpace(c)] = true
	}
	for _, l := range labels {
		if expr, ok := strings.CutPrefix(l, "re:"); ok {
			if re, err := regexp.Compile(expr); err == nil {
				m.patterns = append(m.patterns, re)
			}
			continue
		}
		if l != "" {
			m.substrings = append(m.substrings, l)
		}
	}
	return m
}

func (m *labelMatcher) excluded(title string) bool {
	title = strings.TrimSpace(title)
	if m.exact[title] {
		return true
	}
	for _, s := range m.substrings {
		if strings.Contains(title, s) {
			return true
		}
	}
	for _, re := range m.patterns {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}
