package domain

import "time"

// Status is the outcome of a single step
type Status string

const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusNotTest Status = "not-test"
)

// StepResult represents one step of a scenario run
type StepResult struct {
	Name       string     `json:"name"`
	Status     Status     `json:"status"`
	DurationMs int64      `json:"durationMs"`
	Error      string     `json:"error,omitempty"`
	ErrorKind  ErrorKind  `json:"errorKind,omitempty"`
	StartTime  *time.Time `json:"startTime"`
	EndTime    *time.Time `json:"endTime"`
}

// SetError stores the error text and kind on the step
func (s *StepResult) SetError(info ErrorInfo) {
	s.Error = info.Text
	s.ErrorKind = info.Kind
	if info.Text == "" {
		s.ErrorKind = ""
	}
}

// ParsedStep is a step as produced by the parser. HasResult reports whether
// the test runner actually recorded an outcome for it; it is only used while
// reconciling and is never persisted.
type ParsedStep struct {
	StepResult
	HasResult bool
}

// Steps strips the parser-only fields
func Steps(parsed []ParsedStep) []StepResult {
	steps := make([]StepResult, len(parsed))
	for i, p := range parsed {
		steps[i] = p.StepResult
	}
	return steps
}

// TotalDurationMs sums the step durations
func TotalDurationMs(steps []StepResult) int64 {
	var total int64
	for _, s := range steps {
		total += s.DurationMs
	}
	return total
}
