package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ID    string
	Count int
}

func TestQueue_PublishConsume(t *testing.T) {
	ctx := context.Background()
	queue := NewQueue[payload](DefaultConfig())

	require.True(t, queue.TryPublish(&payload{ID: "p1", Count: 1}))
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, "p1", message.T().ID)
	assert.NotEmpty(t, message.(*Message[payload]).ID())

	assert.NoError(t, message.Ack())
	assert.True(t, errors.Is(message.Ack(), ErrSettled))
	assert.True(t, errors.Is(message.Nack(nil), ErrSettled))
}

func TestQueue_TryPublish(t *testing.T) {
	queue := NewQueue[payload](Config{Buffer: 2})
	testCases := []struct {
		id      string
		expect  bool
		dropped int64
	}{
		{id: "a", expect: true},
		{id: "b", expect: true},
		{id: "c", expect: false, dropped: 1},
	}
	for _, tc := range testCases {
		t.Run(tc.id, func(t *testing.T) {
			assert.Equal(t, tc.expect, queue.TryPublish(&payload{ID: tc.id}))
			assert.Equal(t, tc.dropped, queue.Dropped())
		})
	}
}

func TestQueue_Nack(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	queue := NewQueue[payload](Config{Buffer: 4, MaxRetries: 2, RetryDelay: time.Millisecond})
	require.True(t, queue.TryPublish(&payload{ID: "retry"}))

	deliveries := 0
	for i := 0; i < 3; i++ {
		message, err := queue.Consume(ctx)
		require.NoError(t, err)
		assert.Equal(t, "retry", message.T().ID)
		deliveries++
		require.NoError(t, message.Nack(fmt.Errorf("attempt %d", i)))
	}
	assert.Equal(t, 3, deliveries)
	assert.Eventually(t, func() bool { return queue.Dropped() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, 0, queue.Size())
}

func TestQueue_Concurrency(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	producers, perProducer := 10, 10
	queue := NewQueue[payload](Config{Buffer: producers * perProducer})

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(producer int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				assert.True(t, queue.TryPublish(&payload{ID: fmt.Sprintf("p%d-%d", producer, j), Count: j}))
			}
		}(i)
	}
	seen := map[string]bool{}
	for len(seen) < producers*perProducer {
		message, err := queue.Consume(ctx)
		require.NoError(t, err)
		require.NoError(t, message.Ack())
		seen[message.T().ID] = true
	}
	wg.Wait()
	assert.Equal(t, 0, queue.Size())
}

func TestQueue_Cancellation(t *testing.T) {
	queue := NewQueue[payload](DefaultConfig())
	timeoutCtx, cancelTimeout := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancelTimeout()
	_, err := queue.Consume(timeoutCtx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	require.True(t, queue.TryPublish(&payload{ID: "y"}))
	message, err := queue.Consume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "y", message.T().ID)
}
