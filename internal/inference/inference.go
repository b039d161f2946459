package inference

import (
	"strings"

	"psr/internal/domain"
)

const (
	// ErrAbnormalTermination marks the step that was running when the
	// runner died.
	ErrAbnormalTermination = "abnormal termination"
	// ErrPriorStepFailed marks every step after the failure point.
	ErrPriorStepFailed = "skipped: prior step failed"
)

// terminationMarkers appear in runner output when the browser or its
// context went away under a running test.
var terminationMarkers = []string{
	"target page, context or browser has been closed",
	"browser has been closed",
	"context has been closed",
	"context closed",
	"browser closed",
	"protocol error",
}

// Inferencer picks a single failure point in an incomplete step list
type Inferencer struct {
	// ExplicitFailureTakesPrecedence consults explicit failed statuses
	// before closed-browser signatures.
	ExplicitFailureTakesPrecedence bool
}

// New creates an Inferencer with the given policy
func New(explicitFailureFirst bool) *Inferencer {
	return &Inferencer{ExplicitFailureTakesPrecedence: explicitFailureFirst}
}

// DetectTermination reports whether the run ended abnormally: a signal
// killed the runner, it could not be run at all, or its output carries a
// closed-browser marker.
func DetectTermination(out domain.RunOutput) bool {
	if out.Signaled || out.Err != nil {
		return true
	}
	return HasTerminationSignature(out.Combined())
}

// HasTerminationSignature reports whether text carries a closed-browser,
// closed-context or protocol error marker.
func HasTerminationSignature(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range terminationMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// Reconcile mutates steps so that exactly one failure point remains and
// every later step is not tested, then returns the overall status.
func (inf *Inferencer) Reconcile(steps []domain.ParsedStep, terminated bool) domain.OverallStatus {
	if len(steps) == 0 || allPass(steps) {
		return domain.OverallStatusOf(domain.Steps(steps), terminated)
	}

	point := inf.failurePoint(steps)
	failing := &steps[point]
	if failing.Status != domain.StatusFail {
		failing.Status = domain.StatusFail
		if failing.Error == "" || !HasTerminationSignature(failing.Error) {
			failing.SetError(domain.Message(ErrAbnormalTermination))
		}
	}
	for i := point + 1; i < len(steps); i++ {
		steps[i].Status = domain.StatusNotTest
		steps[i].SetError(domain.Message(ErrPriorStepFailed))
	}

	if terminated {
		return domain.OverallStopped
	}
	return domain.OverallFail
}

func (inf *Inferencer) failurePoint(steps []domain.ParsedStep) int {
	explicit, signature := -1, -1
	for i, s := range steps {
		if explicit < 0 && s.HasResult && s.Status == domain.StatusFail {
			explicit = i
		}
		if signature < 0 && s.Error != "" && HasTerminationSignature(s.Error) {
			signature = i
		}
	}

	first, second := signature, explicit
	if inf.ExplicitFailureTakesPrecedence {
		first, second = explicit, signature
	}
	point := first
	if point < 0 {
		point = second
	}
	if point >= 0 {
		// a failed step can never be followed by a chosen point
		if explicit >= 0 && explicit < point {
			return explicit
		}
		return point
	}

	return heuristicPoint(steps)
}

// heuristicPoint is used when nothing failed explicitly. The last step with
// a result shows how far the run got.
func heuristicPoint(steps []domain.ParsedStep) int {
	last := -1
	for i, s := range steps {
		if s.HasResult {
			last = i
		}
	}
	if last < 0 {
		return 0
	}
	if steps[last].Status != domain.StatusPass {
		return last
	}
	if last+1 < len(steps) {
		return last + 1
	}
	for i, s := range steps {
		if s.Status != domain.StatusPass {
			return i
		}
	}
	return last
}

func allPass(steps []domain.ParsedStep) bool {
	for _, s := range steps {
		if s.Status != domain.StatusPass {
			return false
		}
	}
	return true
}
