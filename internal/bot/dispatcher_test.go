package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDispatcherKeepsPerSessionOrder(t *testing.T) {
	d := NewDispatcher(4, 8)

	var mu sync.Mutex
	got := map[int64][]int{}
	for i := 0; i < 50; i++ {
		for _, id := range []int64{1, 2, 3, 7, -5} {
			id, i := id, i
			require.NoError(t, d.Submit(context.Background(), id, func() {
				mu.Lock()
				got[id] = append(got[id], i)
				mu.Unlock()
			}))
		}
	}
	d.Close()

	for id, seq := range got {
		require.Len(t, seq, 50, "session %d", id)
		for i, v := range seq {
			assert.Equal(t, i, v, "session %d", id)
		}
	}
}

func TestDispatcherRunsSessionsInParallel(t *testing.T) {
	d := NewDispatcher(2, 1)
	defer d.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, d.Submit(context.Background(), 0, func() {
		close(started)
		<-release
	}))
	<-started

	done := make(chan struct{})
	require.NoError(t, d.Submit(context.Background(), 1, func() { close(done) }))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("сессия 1 ждёт занятую сессию 0")
	}
	close(release)
}

func TestDispatcherSubmitHonoursContext(t *testing.T) {
	d := NewDispatcher(1, 0)
	defer d.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, d.Submit(context.Background(), 1, func() {
		close(started)
		<-release
	}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := d.Submit(ctx, 1, func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(release)
}

func TestDispatcherClose(t *testing.T) {
	d := NewDispatcher(3, 4)
	ran := make(chan struct{}, 3)
	for i := int64(0); i < 3; i++ {
		require.NoError(t, d.Submit(context.Background(), i, func() { ran <- struct{}{} }))
	}
	d.Close()
	d.Close()
	assert.Len(t, ran, 3)
	assert.ErrorIs(t, d.Submit(context.Background(), 1, func() {}), ErrDispatcherClosed)
}
