package domain

import "time"

// RunOutput is what the test runner subprocess left behind
type RunOutput struct {
	Stdout     string
	Stderr     string
	ExitCode   int
	Signaled   bool  // killed by a signal
	Err        error // failed to start or wait
	StartedAt  time.Time
	FinishedAt time.Time
}

// Combined returns stdout followed by stderr
func (o RunOutput) Combined() string {
	if o.Stderr == "" {
		return o.Stdout
	}
	if o.Stdout == "" {
		return o.Stderr
	}
	return o.Stdout + "\n" + o.Stderr
}

// WallClockMs is the process run time in milliseconds
func (o RunOutput) WallClockMs() int64 {
	if o.StartedAt.IsZero() || o.FinishedAt.Before(o.StartedAt) {
		return 0
	}
	return o.FinishedAt.Sub(o.StartedAt).Milliseconds()
}
