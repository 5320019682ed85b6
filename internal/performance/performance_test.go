package performance

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolRunsAllTasks(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Start()
	defer pool.Stop()

	var counter atomic.Int64
	var wg sync.WaitGroup

	const tasks = 200
	for i := 0; i < tasks; i++ {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			counter.Add(1)
		}
		if !pool.Submit(task) {
			// Queue full; run inline like callers do.
			task()
		}
	}
	wg.Wait()

	if counter.Load() != tasks {
		t.Errorf("ran %d tasks, want %d", counter.Load(), tasks)
	}
}

func TestWorkerPoolSubmitBeforeStart(t *testing.T) {
	pool := NewWorkerPool(2)
	if pool.Submit(func() {}) {
		t.Error("Submit succeeded on a stopped pool")
	}
	pool.Start()
	defer pool.Stop()
	if !pool.Submit(func() {}) {
		t.Error("Submit failed on a running pool")
	}
}

func TestWorkerPoolStopIsIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	pool.Stop()
	pool.Stop()

	if pool.Submit(func() {}) {
		t.Error("Submit succeeded after Stop")
	}
}

func TestWorkerPoolStats(t *testing.T) {
	pool := NewWorkerPool(3)
	pool.Start()
	defer pool.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		if !pool.Submit(func() { defer wg.Done() }) {
			wg.Done()
		}
	}
	wg.Wait()
	time.Sleep(10 * time.Millisecond)

	stats := pool.Stats()
	if stats.Workers != 3 || !stats.Running {
		t.Errorf("stats = %+v", stats)
	}
	if stats.TasksDone > stats.TasksTotal {
		t.Errorf("done %d exceeds total %d", stats.TasksDone, stats.TasksTotal)
	}
}
