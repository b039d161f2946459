package discovery

import (
	"testing"

	"psr/internal/config"
)

func TestFilter_FilterByName(t *testing.T) {
	filter := NewFilter()
	scenarios := []config.Scenario{
		{ID: 1, Title: "Login", File: "scenario-1.spec.js"},
		{ID: 2, Title: "Payment by card", File: "scenario-2.spec.js"},
		{ID: 3, Title: "Refund payment", File: "scenario-3.spec.js"},
		{ID: 4, Title: "Order history"},
	}

	tests := []struct {
		name     string
		pattern  string
		expected int
	}{
		{name: "empty pattern returns all", pattern: "", expected: 4},
		{name: "wildcard pattern matches file name", pattern: "scenario-?.spec.js", expected: 3},
		{name: "wildcard pattern matches substring", pattern: "*payment*", expected: 2},
		{name: "parts must appear in order", pattern: "*payment*card*", expected: 1},
		{name: "simple contains match ignores case", pattern: "ORDER", expected: 1},
		{name: "no match", pattern: "Nonexistent", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.FilterByName(scenarios, tt.pattern)
			if len(result) != tt.expected {
				t.Errorf("expected %d matches, got %d: %v", tt.expected, len(result), result)
			}
		})
	}
}
