package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type testResult struct {
	value int
	err   error
}

func (r *testResult) GetError() error { return r.err }

type testJob struct {
	value   int
	fail    bool
	running *atomic.Int32
	peak    *atomic.Int32
}

func (j *testJob) Execute(ctx context.Context) Result {
	if j.running != nil {
		n := j.running.Add(1)
		for {
			p := j.peak.Load()
			if n <= p || j.peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		j.running.Add(-1)
	}
	if j.fail {
		return &testResult{value: j.value, err: errors.New("job failed")}
	}
	return &testResult{value: j.value * 2}
}

func TestPool_RunPreservesOrder(t *testing.T) {
	pool := NewPool(3)

	var jobs []Job
	for i := 0; i < 10; i++ {
		jobs = append(jobs, &testJob{value: i})
	}

	results := pool.Run(context.Background(), jobs)
	if len(results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(results))
	}
	for i, r := range results {
		if got := r.(*testResult).value; got != i*2 {
			t.Errorf("result %d: expected %d, got %d", i, i*2, got)
		}
	}
}

func TestPool_RunManyJobs(t *testing.T) {
	// far more jobs than workers must not block
	pool := NewPool(2)

	var jobs []Job
	for i := 0; i < 200; i++ {
		jobs = append(jobs, &testJob{value: i})
	}

	done := make(chan []Result)
	go func() { done <- pool.Run(context.Background(), jobs) }()

	select {
	case results := <-done:
		if len(results) != 200 {
			t.Errorf("expected 200 results, got %d", len(results))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("pool deadlocked")
	}
}

func TestPool_RespectsWorkerCount(t *testing.T) {
	pool := NewPool(2)
	var running, peak atomic.Int32

	var jobs []Job
	for i := 0; i < 8; i++ {
		jobs = append(jobs, &testJob{value: i, running: &running, peak: &peak})
	}
	pool.Run(context.Background(), jobs)

	if peak.Load() > 2 {
		t.Errorf("expected at most 2 concurrent jobs, saw %d", peak.Load())
	}
}

func TestPool_Errors(t *testing.T) {
	pool := NewPool(2)
	results := pool.Run(context.Background(), []Job{
		&testJob{value: 1},
		&testJob{value: 2, fail: true},
		&testJob{value: 3},
	})

	if errs := Errors(results); len(errs) != 1 {
		t.Errorf("expected 1 error, got %v", errs)
	}
}

func TestPool_CancelledContext(t *testing.T) {
	pool := NewPool(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := pool.Run(ctx, []Job{&testJob{value: 1}, &testJob{value: 2}})
	if len(results) != 2 {
		t.Fatalf("expected a slot per job, got %d", len(results))
	}
	if len(Errors(results)) != 0 {
		t.Error("unstarted jobs must not report errors")
	}
}

func TestNewPool_Defaults(t *testing.T) {
	if NewPool(0).Workers() != 1 {
		t.Error("expected at least one worker")
	}
	if len(NewPool(4).Run(context.Background(), nil)) != 0 {
		t.Error("expected no results for no jobs")
	}
}
