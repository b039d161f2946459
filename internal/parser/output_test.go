package parser

import (
	"testing"
	"time"

	"psr/internal/domain"
)

func TestPlaywrightParser_OutputFallback(t *testing.T) {
	output := "Running 4 tests using 1 worker\n\n" +
		"  \x1b[32m✓\x1b[39m  1 [chromium] › scenario-7.spec.js:5:3 › Scenario 7 › Open dashboard (500ms)\n" +
		"  ✓  2 [chromium] › scenario-7.spec.js:9:3 › Scenario 7 › Click (OK) [button]? (1.25s)\n" +
		"  ✘  3 [chromium] › scenario-7.spec.js:13:3 › Scenario 7 › Save form (2.0s)\n"

	log := &recordingLogger{}
	base := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	steps := NewPlaywrightParser(log).Parse(ParseInput{
		ReportPath:    "",
		TestFile:      "scenario-7.spec.js",
		ExpectedSteps: []string{"Open dashboard", "Click (OK) [button]?", "Save form", "Logout"},
		Output:        output,
		BaseStart:     base,
	})

	if len(steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(steps))
	}

	tests := []struct {
		status    domain.Status
		duration  int64
		hasResult bool
	}{
		{domain.StatusPass, 500, true},
		{domain.StatusPass, 1250, true},
		{domain.StatusFail, 2000, true},
		{domain.StatusNotTest, 0, false},
	}
	for i, tt := range tests {
		got := steps[i]
		if got.Status != tt.status || got.DurationMs != tt.duration || got.HasResult != tt.hasResult {
			t.Errorf("step %d (%s): expected %+v, got %+v", i, got.Name, tt, got)
		}
	}
	if steps[1].StartTime == nil || !steps[1].StartTime.Equal(base.Add(500*time.Millisecond)) {
		t.Errorf("expected accumulated start time, got %v", steps[1].StartTime)
	}
	if len(log.lines) == 0 {
		t.Error("expected fallback to be logged")
	}
}

func TestPlaywrightParser_OutputMatchesWholeTitle(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected []domain.Status
	}{
		{
			"suffix of a longer title",
			"  ✓  1 [chromium] › scenario-1.spec.js:3:5 › 관리자 로그인 (1.2s)\n",
			[]domain.Status{domain.StatusNotTest, domain.StatusPass},
		},
		{
			"both titles reported",
			"  ✓  1 [chromium] › scenario-1.spec.js:3:5 › 관리자 로그인 (1.2s)\n" +
				"  ✘  2 [chromium] › scenario-1.spec.js:7:5 › 로그인 (300ms)\n",
			[]domain.Status{domain.StatusFail, domain.StatusPass},
		},
		{
			"no file column",
			"  ✓  1 로그인 (10ms)\n",
			[]domain.Status{domain.StatusPass, domain.StatusNotTest},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := NewPlaywrightParser(nil).Parse(ParseInput{
				TestFile:      "scenario-1.spec.js",
				ExpectedSteps: []string{"로그인", "관리자 로그인"},
				Output:        tt.output,
			})
			if len(steps) != len(tt.expected) {
				t.Fatalf("expected %d steps, got %d", len(tt.expected), len(steps))
			}
			for i, status := range tt.expected {
				if steps[i].Status != status {
					t.Errorf("step %q: expected %s, got %s", steps[i].Name, status, steps[i].Status)
				}
			}
		})
	}
}

func TestPlaywrightParser_OutputIgnoredWhenReportHasSteps(t *testing.T) {
	steps := NewPlaywrightParser(nil).Parse(ParseInput{
		ReportPath:    writeReport(t, twoStepReport),
		TestFile:      "scenario-7.spec.js",
		ExpectedSteps: []string{"A", "B"},
		Output:        "  ✘  1 › A (1s)\n",
	})
	if len(steps) != 2 || steps[0].Status != domain.StatusPass {
		t.Errorf("expected JSON report to win, got %+v", steps)
	}
}

func TestPlaywrightParser_NoReportNoOutput(t *testing.T) {
	steps := NewPlaywrightParser(nil).Parse(ParseInput{
		ReportPath:    "/does/not/exist.json",
		TestFile:      "scenario-7.spec.js",
		ExpectedSteps: []string{"A", "B"},
	})
	if len(steps) != 0 {
		t.Errorf("expected empty step list, got %+v", steps)
	}
}

func TestParseDurationMs(t *testing.T) {
	tests := []struct {
		value, unit string
		expected    int64
	}{
		{"12", "ms", 12},
		{"1.25", "s", 1250},
		{"0.5", "s", 500},
		{"bad", "ms", 0},
	}
	for _, tt := range tests {
		if got := parseDurationMs(tt.value, tt.unit); got != tt.expected {
			t.Errorf("parseDurationMs(%s, %s): expected %d, got %d", tt.value, tt.unit, tt.expected, got)
		}
	}
}
