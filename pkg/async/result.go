// Package async turns blocking remote calls into explicit completions that
// carry either a value or an error.
package async

import "context"

// Result is the outcome of one asynchronous call: exactly one of Value or Err
// is meaningful.
type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) OK() bool { return r.Err == nil }

// Go runs fn on its own goroutine and delivers exactly one Result on the
// returned channel. The channel is buffered so an abandoned receiver never
// leaks the goroutine.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan Result[T] {
	out := make(chan Result[T], 1)
	go func() {
		value, err := fn(ctx)
		out <- Result[T]{Value: value, Err: err}
	}()
	return out
}

// Then runs fn on its own goroutine and hands the outcome to onSuccess or
// onFailure, never both.
func Then[T any](ctx context.Context, fn func(context.Context) (T, error), onSuccess func(T), onFailure func(error)) {
	go func() {
		value, err := fn(ctx)
		if err != nil {
			if onFailure != nil {
				onFailure(err)
			}
			return
		}
		if onSuccess != nil {
			onSuccess(value)
		}
	}()
}

// Await blocks until the result arrives or ctx is done.
func Await[T any](ctx context.Context, ch <-chan Result[T]) Result[T] {
	select {
	case r := <-ch:
		return r
	case <-ctx.Done():
		return Result[T]{Err: ctx.Err()}
	}
}
