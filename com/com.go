// Package com provides small concurrency helpers: a generic atomic box
// (atomic.go), used by internal/txutil, and the goroutine-supervision
// helpers below, adapted from the teacher library's com package.
package com

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Waiter is anything with a blocking Wait() error method, such as an
// *errgroup.Group or a WaiterFunc.
type Waiter interface {
	Wait() error
}

// WaiterFunc is a function that implements the Waiter interface.
type WaiterFunc func() error

// Wait calls f.
func (f WaiterFunc) Wait() error {
	return f()
}

// WaitAsync calls Wait() on the passed Waiter in a new goroutine and
// sends the first non-nil error (if any) to the returned channel.
// The returned channel is always closed when the Waiter is done.
func WaitAsync(ctx context.Context, w Waiter) <-chan error {
	errs := make(chan error, 1)

	go func() {
		defer close(errs)

		if e := w.Wait(); e != nil {
			select {
			case errs <- e:
			case <-ctx.Done():
			}
		}
	}()

	return errs
}

// ErrgroupReceive adds a goroutine to the specified group that
// returns the first non-nil error (if any) from the specified channel.
// If the channel is closed, it will return nil.
func ErrgroupReceive(ctx context.Context, g *errgroup.Group, err <-chan error) {
	g.Go(func() error {
		select {
		case e, more := <-err:
			if !more {
				return nil
			}

			return e
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// CopyFirst asynchronously forwards all items from input to forward and
// synchronously returns the first item, the way database/optionally.go's
// Upsert.Stream peeks at the first entity.
func CopyFirst[T any](ctx context.Context, input <-chan T) (T, <-chan T, error) {
	var zero T

	select {
	case first, ok := <-input:
		if !ok {
			return zero, nil, errors.New("can't read from closed channel")
		}

		// Buffer of one because we receive an entity and send it back immediately.
		forward := make(chan T, 1)
		forward <- first

		go func() {
			defer close(forward)

			for {
				select {
				case e, ok := <-input:
					if !ok {
						return
					}

					select {
					case forward <- e:
					case <-ctx.Done():
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()

		return first, forward, nil
	case <-ctx.Done():
		return zero, nil, ctx.Err()
	}
}
