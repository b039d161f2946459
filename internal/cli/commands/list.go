package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"psr/internal/config"
	"psr/internal/discovery"
	"psr/internal/domain"
)

// ListCommand handles the list command
type ListCommand struct {
	deps    *Deps
	scanner *discovery.Scanner
	filter  *discovery.Filter
}

// NewListCommand creates a new ListCommand
func NewListCommand(deps *Deps, scanner *discovery.Scanner, filter *discovery.Filter) *ListCommand {
	return &ListCommand{deps: deps, scanner: scanner, filter: filter}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	profile, err := lc.deps.profile()
	if err != nil {
		return err
	}

	scenarios := lc.filter.FilterByName(catalog(lc.deps, lc.scanner, profile), lc.deps.Config.Flags.Filter)

	results, err := lc.deps.Ledger.Results(lc.deps.Config.LedgerPath(profile), profile.Key)
	if err != nil {
		return err
	}
	latest := make(map[int]domain.ScenarioResult, len(results))
	for _, r := range results {
		latest[r.ScenarioID] = r
	}
	if lc.deps.Config.Flags.Filter != "" {
		// unconfigured ledger rows only make sense in the full listing
		keep := make(map[int]domain.ScenarioResult, len(scenarios))
		for _, s := range scenarios {
			if r, ok := latest[s.ID]; ok {
				keep[s.ID] = r
			}
		}
		latest = keep
	}

	lc.deps.Console.Infof("%s %s", profile.Icon, profile.Name)
	return lc.deps.Formatter.PrintScenarioList(scenarios, latest)
}

// catalog returns the configured scenarios plus spec files found in the
// product's test directory
func catalog(deps *Deps, scanner *discovery.Scanner, profile config.ProductProfile) []config.Scenario {
	testDir := profile.TestDir
	if testDir == "" {
		testDir = config.DefaultTestDir
	}
	if !filepath.IsAbs(testDir) {
		testDir = filepath.Join(deps.Config.ProductRoot(profile), testDir)
	}
	found, err := scanner.Scan(testDir)
	if err != nil {
		deps.Console.Warnf("%v", err)
	}
	return discovery.Catalog(profile.Scenarios, found)
}
