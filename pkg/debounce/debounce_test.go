package debounce

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalescesRapidCalls(t *testing.T) {
	d := New()
	defer d.Stop()

	var (
		mu    sync.Mutex
		calls []string
	)
	for _, text := range []string{"a", "ab", "abc", "abcd", "abcde"} {
		d.Schedule(50*time.Millisecond, func(ctx context.Context, seq uint64) {
			mu.Lock()
			defer mu.Unlock()
			calls = append(calls, text)
		})
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(calls) == 1
	}, time.Second, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"abcde"}, calls)
}

func TestDebouncerCancelsSupersededContext(t *testing.T) {
	d := New()
	defer d.Stop()

	started := make(chan struct{})
	cancelled := make(chan struct{})
	firstSeq := d.Schedule(0, func(ctx context.Context, seq uint64) {
		close(started)
		<-ctx.Done()
		close(cancelled)
	})

	<-started
	assert.True(t, d.Current(firstSeq))

	d.Schedule(time.Hour, func(context.Context, uint64) {})
	assert.False(t, d.Current(firstSeq))

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("superseded call was not cancelled")
	}
}

func TestDebouncerStop(t *testing.T) {
	d := New()

	var ran atomic.Bool
	d.Schedule(10*time.Millisecond, func(context.Context, uint64) { ran.Store(true) })
	d.Stop()
	seq := d.Schedule(0, func(context.Context, uint64) { ran.Store(true) })

	time.Sleep(50 * time.Millisecond)
	assert.False(t, ran.Load())
	assert.False(t, d.Current(seq))
}

func TestDebouncerCancel(t *testing.T) {
	d := New()
	defer d.Stop()

	var ran atomic.Bool
	d.Schedule(10*time.Millisecond, func(context.Context, uint64) { ran.Store(true) })
	d.Cancel()

	time.Sleep(50 * time.Millisecond)
	assert.False(t, ran.Load())
}
