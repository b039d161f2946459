package domain

import "time"

// ReportArtifact is one rendered scenario report
type ReportArtifact struct {
	ScenarioID   int       `json:"scenarioId"`
	HTMLPath     string    `json:"htmlPath"`
	SnapshotPath string    `json:"snapshotPath,omitempty"`
	RenderedAt   time.Time `json:"renderedAt"`
}

// HistoryEntry is a past report snapshot of a scenario
type HistoryEntry struct {
	Filename  string    `json:"filename"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// IndexEntry is one row of the product dashboard
type IndexEntry struct {
	ScenarioID        int           `json:"scenarioId"`
	Title             string        `json:"title"`
	Status            OverallStatus `json:"status"`
	DurationFormatted string        `json:"durationFormatted"`
	LastRun           time.Time     `json:"lastRun"`
	ReportPath        string        `json:"reportPath"`
}
