package worker

import (
	"context"
	"sync"
)

// Job is a unit of work run by the pool
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of a job
type Result interface {
	GetError() error
}

// Pool runs jobs on a fixed number of goroutines
type Pool struct {
	workers int
}

// NewPool creates a pool with the given number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Workers returns the pool size
func (p *Pool) Workers() int {
	return p.workers
}

type indexedJob struct {
	index int
	job   Job
}

type indexedResult struct {
	index  int
	result Result
}

// Run executes every job and returns the results in job order. Jobs are
// fed from a separate goroutine, so any number of jobs can be submitted.
// Jobs not started before ctx is cancelled get a nil result.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	queue := make(chan indexedJob)
	out := make(chan indexedResult, p.workers)

	go func() {
		defer close(queue)
		for i, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case queue <- indexedJob{index: i, job: job}:
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ij := range queue {
				out <- indexedResult{index: ij.index, result: ij.job.Execute(ctx)}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	for r := range out {
		results[r.index] = r.result
	}
	return results
}

// Errors returns the non-nil errors among results
func Errors(results []Result) []error {
	var errs []error
	for _, r := range results {
		if r == nil {
			continue
		}
		if err := r.GetError(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
