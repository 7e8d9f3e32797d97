package async

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
	"golang.org/x/sync/errgroup"
)

// Task is one unit of work for RunAll
type Task func(ctx context.Context) error

// RunAll executes tasks concurrently and waits for every one of them
//
// Parameters:
//   - ctx: Passed to every task unchanged; a failing task does not cancel it
//   - limit: Maximum number of tasks in flight, zero or negative means unbounded
//   - tasks: Functions to execute
//
// Behavior:
//   - errs[i] is the error returned by tasks[i], nil on success
//   - A failing task never stops its siblings
//   - Recovers from panics, logs them with a stack, and reports them as errors
func RunAll(ctx context.Context, limit int, tasks []Task) []error {
	errs := make([]error, len(tasks))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, task := range tasks {
		g.Go(func() error {
			errs[i] = runTask(ctx, task)
			return nil
		})
	}
	_ = g.Wait()

	return errs
}

func runTask(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			ctxlog.From(ctx).Error("panic in async task",
				"recover", r,
				"stack", string(stack))
			err = fmt.Errorf("panic in async task: %v", r)
		}
	}()

	return task(ctx)
}
