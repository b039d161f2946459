package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"psr/internal/config"
	"psr/internal/domain"
)

// Formatter formats and displays scenario results
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{out: out}
}

// StatusGlyph returns the symbol used for a step status
func StatusGlyph(s domain.Status) string {
	switch s {
	case domain.StatusPass:
		return "✓"
	case domain.StatusFail:
		return "✗"
	default:
		return "○"
	}
}

func statusColor(s domain.OverallStatus) *color.Color {
	switch s {
	case domain.OverallPass:
		return color.New(color.FgGreen)
	case domain.OverallStopped:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

// PrintRunSummary prints the steps and the outcome of one run
func (f *Formatter) PrintRunSummary(result domain.ScenarioResult) {
	fmt.Fprintln(f.out)
	color.New(color.FgCyan).Fprintf(f.out, "Scenario %d · %s\n", result.ScenarioID, result.Title)
	fmt.Fprintln(f.out, "┌────┬──────────────────────────────────────────┬──────────┬──────────┐")

	for i, s := range result.Steps {
		name := truncate(s.Name, 40)
		line := fmt.Sprintf("│ %2d │ %-40s │ %-8s │ %8s │", i+1, name, string(s.Status), fmt.Sprintf("%dms", s.DurationMs))
		switch s.Status {
		case domain.StatusPass:
			color.New(color.FgGreen).Fprintln(f.out, line)
		case domain.StatusFail:
			color.New(color.FgRed).Fprintln(f.out, line)
		default:
			fmt.Fprintln(f.out, line)
		}
	}
	fmt.Fprintln(f.out, "└────┴──────────────────────────────────────────┴──────────┴──────────┘")

	for _, s := range result.Steps {
		if s.Status == domain.StatusFail && s.Error != "" {
			color.New(color.FgRed).Fprintf(f.out, "  %s %s: %s\n", StatusGlyph(s.Status), s.Name, firstLine(s.Error))
		}
	}

	passed, failed, notTested := result.Counts()
	fmt.Fprintln(f.out)
	statusColor(result.OverallStatus).Fprintf(f.out, "%s · %d passed, %d failed, %d not tested (%s)\n",
		strings.ToUpper(string(result.OverallStatus)), passed, failed, notTested, result.DurationFormatted)
}

// PrintScenarioList prints the configured scenarios with their last status
func (f *Formatter) PrintScenarioList(scenarios []config.Scenario, latest map[int]domain.ScenarioResult) error {
	if len(scenarios) == 0 && len(latest) == 0 {
		color.New(color.FgYellow).Fprintln(f.out, "No scenarios configured")
		return nil
	}

	w := tabwriter.NewWriter(f.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tDURATION\tLAST RUN")
	seen := make(map[int]bool, len(scenarios))
	for _, s := range scenarios {
		seen[s.ID] = true
		status, duration, lastRun := "-", "-", "-"
		if r, ok := latest[s.ID]; ok {
			status = string(r.OverallStatus)
			duration = r.DurationFormatted
			lastRun = r.EndTime.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.Title, status, duration, lastRun)
	}
	// results in the ledger for scenarios no longer configured
	for id, r := range latest {
		if !seen[id] {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", id, r.Title+" (unconfigured)", r.OverallStatus, r.DurationFormatted, r.EndTime.Format("2006-01-02 15:04:05"))
		}
	}
	return w.Flush()
}

// PrintHistory prints a scenario's report snapshots newest first
func (f *Formatter) PrintHistory(scenarioID int, entries []domain.HistoryEntry) {
	if len(entries) == 0 {
		color.New(color.FgYellow).Fprintf(f.out, "No history for scenario %d\n", scenarioID)
		return
	}
	color.New(color.FgGreen).Fprintf(f.out, "Found %d report(s) for scenario %d:\n", len(entries), scenarioID)
	for i, e := range entries {
		connector := "├──"
		if i == len(entries)-1 {
			connector = "└──"
		}
		fmt.Fprintf(f.out, "%s %s  %s\n", connector, e.Timestamp.Format("2006-01-02 15:04:05"), e.Path)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
