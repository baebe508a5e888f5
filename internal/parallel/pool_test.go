package parallel

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsAllSubmittedTasks(t *testing.T) {
	p := New(4)
	defer p.Shutdown()

	var wg sync.WaitGroup
	var n int32
	var mu sync.Mutex
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		wg.Add(1)
		err := p.Submit(ctx, func() {
			defer wg.Done()
			mu.Lock()
			n++
			mu.Unlock()
		})
		require.NoError(t, err)
	}
	wg.Wait()

	assert.EqualValues(t, 20, n)
	// Counters are updated after a task returns; Shutdown waits for that.
	p.Shutdown()
	stats := p.Stats()
	assert.EqualValues(t, 20, stats.TasksSubmitted)
	assert.EqualValues(t, 20, stats.TasksCompleted)
}

func TestPool_RecoversPanickingTask(t *testing.T) {
	p := New(2)
	defer p.Shutdown()

	done := make(chan struct{})
	require.NoError(t, p.Submit(context.Background(), func() {
		defer close(done)
		panic("boom")
	}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}

	// Pool must still accept work after a panicking task.
	ok := make(chan struct{})
	require.NoError(t, p.Submit(context.Background(), func() { close(ok) }))
	select {
	case <-ok:
	case <-time.After(time.Second):
		t.Fatal("pool stopped accepting tasks after a panic")
	}

	p.Shutdown()
	assert.EqualValues(t, 1, p.Stats().TasksFailed)
}

func TestPool_SubmitRespectsContextCancellation(t *testing.T) {
	p := New(1)
	defer p.Shutdown()

	block := make(chan struct{})
	require.NoError(t, p.Submit(context.Background(), func() { <-block }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := p.Submit(ctx, func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(block)
}

func TestPool_SubmitAfterShutdownFails(t *testing.T) {
	p := New(2)
	p.Shutdown()

	err := p.Submit(context.Background(), func() {})
	assert.ErrorIs(t, err, ErrPoolShutdown)
}

func TestPool_ShutdownIsIdempotent(t *testing.T) {
	p := New(1)
	assert.NotPanics(t, func() {
		p.Shutdown()
		p.Shutdown()
	})
}

func TestNew_DefaultsSizeToNumCPU(t *testing.T) {
	p := New(0)
	defer p.Shutdown()
	assert.Greater(t, p.Size(), 0)
}
