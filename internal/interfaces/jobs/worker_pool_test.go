package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type mockJob struct {
	id          string
	ExecuteFunc func(ctx context.Context) error
}

func (j *mockJob) SourceID() string    { return j.id }
func (j *mockJob) Description() string { return "test job" }

func (j *mockJob) Execute(ctx context.Context) error {
	if j.ExecuteFunc != nil {
		return j.ExecuteFunc(ctx)
	}
	return nil
}

func TestWorkerPoolRunsSubmittedJobs(t *testing.T) {
	var executed int32
	done := make(chan struct{})

	pool := NewWorkerPool(2, 8)
	pool.Start()

	for i := 0; i < 4; i++ {
		err := pool.Submit(&mockJob{
			id: "src-1",
			ExecuteFunc: func(ctx context.Context) error {
				if atomic.AddInt32(&executed, 1) == 4 {
					close(done)
				}
				return nil
			},
		})
		if err != nil {
			t.Fatalf("unexpected submit error: %v", err)
		}
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("jobs did not run")
	}

	pool.Shutdown(time.Second)
}

func TestWorkerPoolRejectsWhenQueueFull(t *testing.T) {
	block := make(chan struct{})
	pool := NewWorkerPool(1, 1)
	pool.Start()
	defer func() {
		close(block)
		pool.Shutdown(time.Second)
	}()

	blocking := &mockJob{id: "src-busy", ExecuteFunc: func(ctx context.Context) error {
		<-block
		return nil
	}}
	if err := pool.Submit(blocking); err != nil {
		t.Fatalf("unexpected submit error: %v", err)
	}

	// Give the worker a moment to pick up the blocking job, then fill the
	// queue and overflow it.
	time.Sleep(50 * time.Millisecond)
	if err := pool.Submit(&mockJob{id: "src-queued"}); err != nil {
		t.Fatalf("queue should hold one job: %v", err)
	}
	if err := pool.Submit(&mockJob{id: "src-dropped"}); err == nil {
		t.Fatal("expected an error when the queue is full")
	}
}

func TestWorkerPoolShutdownDrainsQueue(t *testing.T) {
	var executed int32
	pool := NewWorkerPool(1, 8)
	pool.Start()

	for i := 0; i < 3; i++ {
		if err := pool.Submit(&mockJob{
			id: "src-1",
			ExecuteFunc: func(ctx context.Context) error {
				atomic.AddInt32(&executed, 1)
				return nil
			},
		}); err != nil {
			t.Fatalf("unexpected submit error: %v", err)
		}
	}

	pool.Shutdown(2 * time.Second)

	if got := atomic.LoadInt32(&executed); got != 3 {
		t.Errorf("expected all queued jobs executed before shutdown, got %d", got)
	}
}
