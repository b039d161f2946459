package execution

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"

	"psr/internal/domain"
)

type countingProgress struct {
	passed, failed int
	finished       bool
}

func (p *countingProgress) Update(passed, failed int) {
	p.passed, p.failed = passed, failed
}

func (p *countingProgress) Finish() {
	p.finished = true
}

func statusJob(statuses map[int]domain.OverallStatus) Job {
	return func(_ context.Context, id int) (domain.ScenarioResult, error) {
		status, ok := statuses[id]
		if !ok {
			return domain.ScenarioResult{}, errors.New("unknown scenario")
		}
		return domain.ScenarioResult{ScenarioID: id, OverallStatus: status}, nil
	}
}

func TestWorkerPoolRunsAll(t *testing.T) {
	statuses := map[int]domain.OverallStatus{
		1: domain.OverallPass,
		2: domain.OverallFail,
		3: domain.OverallPass,
		4: domain.OverallStopped,
	}
	progress := &countingProgress{}
	pool := NewWorkerPool(3)
	pool.SetProgress(progress)

	outcomes, _ := pool.Execute(context.Background(), []int{1, 2, 3, 4, 5}, statusJob(statuses), false)
	if len(outcomes) != 5 {
		t.Fatalf("expected 5 outcomes, got %d", len(outcomes))
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].ScenarioID < outcomes[j].ScenarioID })
	if !outcomes[0].Passed() || outcomes[1].Passed() || outcomes[4].Err == nil {
		t.Errorf("unexpected outcomes %+v", outcomes)
	}
	if progress.passed != 2 || progress.failed != 3 || !progress.finished {
		t.Errorf("unexpected progress %+v", progress)
	}
}

func TestWorkerPoolFailFast(t *testing.T) {
	var calls int32
	job := func(_ context.Context, id int) (domain.ScenarioResult, error) {
		atomic.AddInt32(&calls, 1)
		status := domain.OverallPass
		if id == 2 {
			status = domain.OverallFail
		}
		return domain.ScenarioResult{ScenarioID: id, OverallStatus: status}, nil
	}

	outcomes, _ := NewWorkerPool(1).Execute(context.Background(), []int{1, 2, 3, 4}, job, true)
	if len(outcomes) != 2 {
		t.Fatalf("expected to stop after the failure, got %d outcomes", len(outcomes))
	}
	if calls != 2 {
		t.Errorf("expected 2 jobs to run, got %d", calls)
	}
}

func TestWorkerPoolEmpty(t *testing.T) {
	outcomes, elapsed := NewWorkerPool(0).Execute(context.Background(), nil, statusJob(nil), false)
	if outcomes != nil || elapsed != 0 {
		t.Errorf("expected nothing for no ids, got %v %v", outcomes, elapsed)
	}
}
