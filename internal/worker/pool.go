package worker

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task is a unit of work producing a value
type Task[T any] func(ctx context.Context) (T, error)

// Outcome is the result of one task, kept at the task's input position
type Outcome[T any] struct {
	Index int
	Value T
	Err   error
}

// Pool runs tasks on a fixed number of goroutines
type Pool[T any] struct {
	workers int
}

// NewPool creates a pool with the specified number of workers
func NewPool[T any](workers int) *Pool[T] {
	if workers <= 0 {
		workers = 1
	}
	return &Pool[T]{workers: workers}
}

// Workers returns the number of worker goroutines
func (p *Pool[T]) Workers() int {
	return p.workers
}

// Run executes all tasks and returns their outcomes in input order.
// Tasks not started before ctx is done get ctx.Err() as their error.
func (p *Pool[T]) Run(ctx context.Context, tasks []Task[T]) []Outcome[T] {
	outcomes := make([]Outcome[T], len(tasks))

	var g errgroup.Group
	g.SetLimit(p.workers)

	for i, task := range tasks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i] = Outcome[T]{Index: i, Err: err}
				return nil
			}
			value, err := task(ctx)
			outcomes[i] = Outcome[T]{Index: i, Value: value, Err: err}
			return nil
		})
	}

	// Task errors live in the outcomes
	_ = g.Wait()
	return outcomes
}
