// Package deadline bounds a single external operation with a wall-clock
// deadline.
//
// When the deadline elapses the caller regains control immediately and the
// operation is abandoned: the goroutine running it keeps executing in the
// background with a cancelled context. Operations that shell out via
// exec.CommandContext terminate with the context; pure in-process work is
// only cancelled cooperatively. There is no forced preemption and no retry;
// fallback policy belongs to the stage layer.
package deadline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storyreel/internal/services"
)

// Run invokes fn and returns its result. A positive timeout bounds the call;
// a zero or negative timeout runs fn to completion with no deadline. On
// expiry the returned error carries services.ErrTimeout, distinct from any
// error fn itself produces.
func Run[T any](ctx context.Context, timeout time.Duration, stage, operation string, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}

	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		value, err := fn(opCtx)
		done <- outcome{value: value, err: err}
	}()

	select {
	case result := <-done:
		// fn may notice the expired deadline and report the context error
		// itself before the select does; classify that as a timeout too so
		// callers see one error kind regardless of who won the race.
		if result.err != nil && ctx.Err() == nil && opCtx.Err() != nil &&
			errors.Is(result.err, context.DeadlineExceeded) {
			var zero T
			return zero, services.Wrap(services.ErrTimeout, stage, operation,
				fmt.Sprintf("deadline of %s exceeded", timeout), nil)
		}
		return result.value, result.err
	case <-opCtx.Done():
		var zero T
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		return zero, services.Wrap(services.ErrTimeout, stage, operation,
			fmt.Sprintf("deadline of %s exceeded", timeout), nil)
	}
}

// Do is Run for operations that produce no value.
func Do(ctx context.Context, timeout time.Duration, stage, operation string, fn func(context.Context) error) error {
	_, err := Run(ctx, timeout, stage, operation, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
