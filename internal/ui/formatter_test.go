package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"psr/internal/config"
	"psr/internal/domain"
)

func init() {
	color.NoColor = true
}

func sampleResult() domain.ScenarioResult {
	end := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return domain.ScenarioResult{
		ScenarioID:        7,
		Product:           "shop",
		Title:             "Checkout",
		OverallStatus:     domain.OverallStopped,
		DurationFormatted: "0분 3초",
		EndTime:           end,
		Terminated:        true,
		Steps: []domain.StepResult{
			{Name: "open cart", Status: domain.StatusPass, DurationMs: 1200},
			{Name: "pay", Status: domain.StatusFail, DurationMs: 1800, Error: "abnormal termination\nstack"},
			{Name: "receipt", Status: domain.StatusNotTest, Error: "skipped: prior step failed"},
		},
	}
}

func TestStatusGlyph(t *testing.T) {
	tests := []struct {
		status   domain.Status
		expected string
	}{
		{domain.StatusPass, "✓"},
		{domain.StatusFail, "✗"},
		{domain.StatusNotTest, "○"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := StatusGlyph(tt.status); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	NewFormatter(&buf).PrintRunSummary(sampleResult())
	out := buf.String()

	for _, want := range []string{"Scenario 7 · Checkout", "open cart", "pay: abnormal termination", "STOPPED · 1 passed, 1 failed, 1 not tested (0분 3초)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "stack") {
		t.Errorf("expected only the first error line, got:\n%s", out)
	}
}

func TestPrintScenarioList(t *testing.T) {
	var buf bytes.Buffer
	scenarios := []config.Scenario{{ID: 7, Title: "Checkout"}, {ID: 8, Title: "Refund"}}
	latest := map[int]domain.ScenarioResult{7: sampleResult()}

	if err := NewFormatter(&buf).PrintScenarioList(scenarios, latest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "stopped") || !strings.Contains(lines[1], "2026-03-01 10:00:00") {
		t.Errorf("expected scenario 7 with latest status, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "Refund") || !strings.Contains(lines[2], "-") {
		t.Errorf("expected scenario 8 without a run, got %q", lines[2])
	}
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.PrintHistory(3, nil)
	if !strings.Contains(buf.String(), "No history for scenario 3") {
		t.Errorf("expected empty history message, got %q", buf.String())
	}

	buf.Reset()
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f.PrintHistory(3, []domain.HistoryEntry{
		{Filename: "report-20260301-100000.html", Path: "/r/report-20260301-100000.html", Timestamp: ts},
		{Filename: "report-20260228-100000.html", Path: "/r/report-20260228-100000.html", Timestamp: ts.Add(-24 * time.Hour)},
	})
	out := buf.String()
	if !strings.Contains(out, "Found 2 report(s)") || !strings.Contains(out, "└── 2026-02-28") {
		t.Errorf("unexpected history output:\n%s", out)
	}
}

func TestFormatScenarioDetails(t *testing.T) {
	out := formatScenarioDetails(sampleResult())
	for _, want := range []string{"[green]✓", "[red]✗", "[gray]○", "skipped: prior step failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected details to contain %q, got:\n%s", want, out)
		}
	}

	stats := formatScenarioStats(sampleResult())
	if !strings.Contains(stats, "STOPPED") || !strings.Contains(stats, "terminated") {
		t.Errorf("unexpected stats: %s", stats)
	}
}

func TestConsoleWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Warnf("ledger %s", "healed")
	c.Successf("done")
	if got := buf.String(); got != "⚠ ledger healed\n✓ done\n" {
		t.Errorf("unexpected console output %q", got)
	}
}
