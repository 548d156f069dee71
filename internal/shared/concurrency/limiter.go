// Package concurrency provides a bounded-parallelism runner for batches of
// independent work items.
package concurrency

import (
	"context"
	"errors"
	"sync"
)

// ForEach runs fn once per item with at most limit invocations in flight and
// returns after every item has settled.
//
// Error policy: collect-all. A failing item never cancels its siblings; all
// errors are gathered and joined into the returned error. Callers that need
// all-or-nothing semantics check the joined error before committing. A limit
// below 1 is treated as 1.
//
// Context cancellation stops items that have not started yet; their
// ctx.Err() is collected like any other failure. Items already running are
// not interrupted.
func ForEach[T any](ctx context.Context, items []T, limit int, fn func(context.Context, T) error) error {
	if len(items) == 0 {
		return nil
	}
	if limit < 1 {
		limit = 1
	}

	sem := make(chan struct{}, limit)
	var mu sync.Mutex
	var errs []error
	var wg sync.WaitGroup

	for _, item := range items {
		wg.Add(1)
		go func(it T) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				errs = append(errs, ctx.Err())
				mu.Unlock()
				return
			}

			if err := fn(ctx, it); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(item)
	}

	wg.Wait()
	return errors.Join(errs...)
}
