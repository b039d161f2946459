package discovery

import (
	"fmt"
	"sort"

	"psr/internal/config"
)

// Catalog merges the configured scenarios with spec files found on disk.
// Configured entries win; a discovered file fills in a missing File.
func Catalog(configured []config.Scenario, found []SpecFile) []config.Scenario {
	byID := make(map[int]config.Scenario, len(configured)+len(found))
	for _, s := range configured {
		byID[s.ID] = s
	}
	for _, f := range found {
		s, ok := byID[f.ScenarioID]
		if !ok {
			s = config.Scenario{ID: f.ScenarioID, Title: fmt.Sprintf("Scenario %d", f.ScenarioID)}
		}
		if s.File == "" {
			s.File = f.Path
		}
		byID[f.ScenarioID] = s
	}

	out := make([]config.Scenario, 0, len(byID))
	for _, s := range byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
