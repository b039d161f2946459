package domain

import (
	"fmt"
	"regexp"
	"time"
)

// OverallStatus is the aggregate outcome of a scenario run
type OverallStatus string

const (
	OverallPass    OverallStatus = "pass"
	OverallFail    OverallStatus = "fail"
	OverallStopped OverallStatus = "stopped"
)

// ScenarioResult is the outcome of one scenario execution. It is built fresh
// for every run and not modified once handed to the ledger.
type ScenarioResult struct {
	ScenarioID        int           `json:"scenarioId"`
	Product           string        `json:"product"`
	Title             string        `json:"title"`
	OverallStatus     OverallStatus `json:"overallStatus"`
	DurationMs        int64         `json:"durationMs"`
	DurationFormatted string        `json:"durationFormatted"`
	StartTime         time.Time     `json:"startTime"`
	EndTime           time.Time     `json:"endTime"`
	Terminated        bool          `json:"terminated"`
	Steps             []StepResult  `json:"steps"`
}

// OverallStatusOf derives the scenario status from its steps
func OverallStatusOf(steps []StepResult, terminated bool) OverallStatus {
	allPass := len(steps) > 0
	for _, s := range steps {
		if s.Status != StatusPass {
			allPass = false
			break
		}
	}
	switch {
	case allPass:
		return OverallPass
	case terminated:
		return OverallStopped
	default:
		return OverallFail
	}
}

// FormatDuration renders milliseconds as "M분 S초"
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	minutes := ms / 60000
	seconds := (ms % 60000) / 1000
	return fmt.Sprintf("%d분 %d초", minutes, seconds)
}

// Counts returns the number of passed, failed and not-tested steps
func (r *ScenarioResult) Counts() (passed, failed, notTested int) {
	for _, s := range r.Steps {
		switch s.Status {
		case StatusPass:
			passed++
		case StatusFail:
			failed++
		default:
			notTested++
		}
	}
	return passed, failed, notTested
}

// LedgerKeys returns both keys a scenario result is stored under
func LedgerKeys(product string, scenarioID int) []string {
	return []string{
		fmt.Sprintf("%s-scenario-%d", product, scenarioID),
		fmt.Sprintf("scenario-%d", scenarioID),
	}
}

// LedgerKeyPattern compiles the key validation pattern for a product
func LedgerKeyPattern(product string) *regexp.Regexp {
	return regexp.MustCompile(`^(` + regexp.QuoteMeta(product) + `-scenario-\d+|scenario-\d+|\d+)$`)
}

// ValidLedgerKey reports whether key is an accepted ledger key for product
func ValidLedgerKey(product, key string) bool {
	return LedgerKeyPattern(product).MatchString(key)
}
