package concurrency

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEach_RunsAllItems(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[int]bool)

	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	err := ForEach(context.Background(), items, 3, func(_ context.Context, n int) error {
		mu.Lock()
		seen[n] = true
		mu.Unlock()
		return nil
	})

	require.NoError(t, err)
	assert.Len(t, seen, len(items))
}

func TestForEach_BoundsConcurrency(t *testing.T) {
	const limit = 3

	var inFlight, peak int64
	items := make([]int, 50)
	err := ForEach(context.Background(), items, limit, func(_ context.Context, _ int) error {
		cur := atomic.AddInt64(&inFlight, 1)
		for {
			old := atomic.LoadInt64(&peak)
			if cur <= old || atomic.CompareAndSwapInt64(&peak, old, cur) {
				break
			}
		}
		atomic.AddInt64(&inFlight, -1)
		return nil
	})

	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(limit))
}

func TestForEach_CollectsAllErrors(t *testing.T) {
	items := []int{0, 1, 2, 3, 4}
	var ran int64

	err := ForEach(context.Background(), items, 2, func(_ context.Context, n int) error {
		atomic.AddInt64(&ran, 1)
		if n%2 == 1 {
			return fmt.Errorf("item %d failed", n)
		}
		return nil
	})

	require.Error(t, err)
	// Every item ran despite the failures (collect-all policy).
	assert.Equal(t, int64(len(items)), atomic.LoadInt64(&ran))
	assert.Contains(t, err.Error(), "item 1 failed")
	assert.Contains(t, err.Error(), "item 3 failed")
}

func TestForEach_EmptyInput(t *testing.T) {
	err := ForEach(context.Background(), nil, 4, func(_ context.Context, _ struct{}) error {
		t.Fatal("fn must not be called for empty input")
		return nil
	})
	assert.NoError(t, err)
}

func TestForEach_ErrorsAreJoined(t *testing.T) {
	sentinel := errors.New("boom")
	items := []int{0, 1}

	err := ForEach(context.Background(), items, 1, func(_ context.Context, n int) error {
		if n == 1 {
			return sentinel
		}
		return nil
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel))
}

func TestForEach_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := make([]int, 10)
	err := ForEach(ctx, items, 1, func(ctx context.Context, _ int) error {
		return ctx.Err()
	})

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), context.Canceled.Error()))
}
