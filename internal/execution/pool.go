package execution

import (
	"context"
	"sync"
	"time"

	"psr/internal/domain"
)

// Job runs one scenario end to end
type Job func(ctx context.Context, scenarioID int) (domain.ScenarioResult, error)

// Outcome is the result of one job in a pool run
type Outcome struct {
	ScenarioID int
	Result     domain.ScenarioResult
	Err        error
}

// Passed reports whether the scenario ran and passed
func (o Outcome) Passed() bool {
	return o.Err == nil && o.Result.OverallStatus == domain.OverallPass
}

// Progress receives pass/fail counts as jobs complete
type Progress interface {
	Update(passed, failed int)
	Finish()
}

// WorkerPool runs scenarios in parallel
type WorkerPool struct {
	workers  int
	progress Progress
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	return &WorkerPool{workers: workers}
}

// SetProgress sets the progress reporter for the pool
func (wp *WorkerPool) SetProgress(progress Progress) {
	wp.progress = progress
}

// Execute runs job for every id. With failFast no new job starts after the
// first scenario that did not pass; jobs already running are finished.
// Outcomes are returned in completion order.
func (wp *WorkerPool) Execute(ctx context.Context, ids []int, job Job, failFast bool) ([]Outcome, time.Duration) {
	if len(ids) == 0 {
		return nil, 0
	}

	stop, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan int)
	results := make(chan Outcome, len(ids))

	go func() {
		defer close(queue)
		for _, id := range ids {
			select {
			case <-stop.Done():
				return
			case queue <- id:
			}
		}
	}()

	var mu sync.Mutex
	var passed, failed int
	startTime := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < wp.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range queue {
				if stop.Err() != nil {
					continue
				}
				// fail-fast only stops the queue; running jobs keep ctx
				result, err := job(ctx, id)
				outcome := Outcome{ScenarioID: id, Result: result, Err: err}
				results <- outcome

				mu.Lock()
				if outcome.Passed() {
					passed++
				} else {
					failed++
					if failFast {
						cancel()
					}
				}
				if wp.progress != nil {
					wp.progress.Update(passed, failed)
				}
				mu.Unlock()
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var all []Outcome
	for outcome := range results {
		all = append(all, outcome)
	}
	if wp.progress != nil {
		wp.progress.Finish()
	}
	return all, time.Since(startTime)
}
