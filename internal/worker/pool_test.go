package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewPool(t *testing.T) {
	if NewPool[int](5).Workers() != 5 {
		t.Error("expected 5 workers")
	}
	if NewPool[int](0).Workers() != 1 {
		t.Error("expected default 1 worker for 0 input")
	}
	if NewPool[int](-1).Workers() != 1 {
		t.Error("expected default 1 worker for negative input")
	}
}

func TestPool_RunPreservesOrder(t *testing.T) {
	pool := NewPool[int](4)

	var tasks []Task[int]
	for i := 0; i < 20; i++ {
		n := i
		tasks = append(tasks, func(ctx context.Context) (int, error) {
			// Later tasks finish first
			time.Sleep(time.Duration(20-n) * time.Millisecond)
			return n * n, nil
		})
	}

	outcomes := pool.Run(context.Background(), tasks)
	if len(outcomes) != 20 {
		t.Fatalf("expected 20 outcomes, got %d", len(outcomes))
	}
	for i, o := range outcomes {
		if o.Index != i || o.Value != i*i || o.Err != nil {
			t.Errorf("outcome %d: got %+v", i, o)
		}
	}
}

func TestPool_Concurrency(t *testing.T) {
	workers := 5
	pool := NewPool[struct{}](workers)

	var current, maxConcurrent int32
	var mu sync.Mutex

	var tasks []Task[struct{}]
	for i := 0; i < 30; i++ {
		tasks = append(tasks, func(ctx context.Context) (struct{}, error) {
			curr := atomic.AddInt32(&current, 1)
			mu.Lock()
			if curr > maxConcurrent {
				maxConcurrent = curr
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&current, -1)
			return struct{}{}, nil
		})
	}

	pool.Run(context.Background(), tasks)

	mu.Lock()
	defer mu.Unlock()
	if maxConcurrent > int32(workers) {
		t.Errorf("max concurrency %d exceeded workers %d", maxConcurrent, workers)
	}
}

func TestPool_Errors(t *testing.T) {
	pool := NewPool[string](2)
	boom := errors.New("job error")

	outcomes := pool.Run(context.Background(), []Task[string]{
		func(ctx context.Context) (string, error) { return "", boom },
		func(ctx context.Context) (string, error) { return "ok", nil },
	})

	if !errors.Is(outcomes[0].Err, boom) {
		t.Errorf("expected job error, got %v", outcomes[0].Err)
	}
	if outcomes[1].Err != nil || outcomes[1].Value != "ok" {
		t.Errorf("unexpected second outcome: %+v", outcomes[1])
	}
}

func TestPool_Cancelled(t *testing.T) {
	pool := NewPool[int](1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var executed int32
	outcomes := pool.Run(ctx, []Task[int]{
		func(ctx context.Context) (int, error) { atomic.AddInt32(&executed, 1); return 1, nil },
		func(ctx context.Context) (int, error) { atomic.AddInt32(&executed, 1); return 2, nil },
	})

	if atomic.LoadInt32(&executed) != 0 {
		t.Errorf("expected no tasks to run after cancellation, ran %d", executed)
	}
	for _, o := range outcomes {
		if !errors.Is(o.Err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", o.Err)
		}
	}
}

func TestPool_Empty(t *testing.T) {
	if got := NewPool[int](3).Run(context.Background(), nil); len(got) != 0 {
		t.Errorf("expected no outcomes, got %d", len(got))
	}
}
