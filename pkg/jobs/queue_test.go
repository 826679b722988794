package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	var handled atomic.Int32
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		handled.Add(1)
		return nil
	}, QueueConfig{Workers: 2, BufferSize: 8})

	q.Start(context.Background())
	defer q.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(Job{ID: "job", Type: "schedule.created"}))
	}

	assert.Eventually(t, func() bool { return handled.Load() == 5 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return q.Stats().Processed == 5 }, time.Second, 5*time.Millisecond)
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var attempts atomic.Int32
	q := NewQueue("retry", func(ctx context.Context, job Job) error {
		if attempts.Add(1) < 3 {
			return errors.New("transient")
		}
		return nil
	}, QueueConfig{Workers: 1, MaxRetries: 3, RetryDelay: time.Millisecond})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.TryEnqueue(Job{ID: "r1"}))
	assert.Eventually(t, func() bool { return q.Stats().Processed == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestQueueRejectsBeforeStart(t *testing.T) {
	q := NewQueue("idle", func(ctx context.Context, job Job) error { return nil }, QueueConfig{})

	assert.Error(t, q.Enqueue(Job{ID: "x"}))
	assert.Error(t, q.TryEnqueue(Job{ID: "x"}))
}

func TestQueueTryEnqueueReportsFullBuffer(t *testing.T) {
	block := make(chan struct{})
	q := NewQueue("full", func(ctx context.Context, job Job) error {
		select {
		case <-block:
		case <-ctx.Done():
		}
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})

	q.Start(context.Background())
	defer func() {
		close(block)
		q.Stop()
	}()

	require.NoError(t, q.TryEnqueue(Job{ID: "a"}))
	var err error
	assert.Eventually(t, func() bool {
		err = q.TryEnqueue(Job{ID: "b"})
		return errors.Is(err, ErrQueueFull)
	}, time.Second, time.Millisecond)
	assert.GreaterOrEqual(t, q.Stats().Dropped, uint64(1))
}

func TestQueueStopRunsBufferedJobs(t *testing.T) {
	var handled atomic.Int32
	q := NewQueue("drain", func(ctx context.Context, job Job) error {
		handled.Add(1)
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 8})

	ctx, cancel := context.WithCancel(context.Background())
	q.Start(ctx)
	cancel()

	for i := 0; i < 3; i++ {
		require.NoError(t, q.TryEnqueue(Job{ID: "late", Type: "schedule.updated"}))
	}
	q.Stop()

	assert.Equal(t, int32(3), handled.Load())
	assert.Equal(t, uint64(3), q.Stats().Processed)
	assert.Zero(t, q.Stats().Pending)
	assert.Error(t, q.TryEnqueue(Job{ID: "after-stop"}))
}
