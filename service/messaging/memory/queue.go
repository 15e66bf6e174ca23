package memory

import (
	"context"
	"errors"
	"github.com/viant/tooring/internal/idgen"
	"github.com/viant/tooring/service/messaging"
	"sync"
	"sync/atomic"
	"time"
)

// ErrSettled is returned when acknowledging a message twice
var ErrSettled = errors.New("message already settled")

// Config represents in-memory queue settings
type Config struct {
	// Buffer is the queue capacity
	Buffer int
	// MaxRetries bounds redeliveries of a nacked message
	MaxRetries int
	// RetryDelay postpones a redelivery
	RetryDelay time.Duration
}

// DefaultConfig returns the default queue settings
func DefaultConfig() Config {
	return Config{
		Buffer:     256,
		MaxRetries: 3,
		RetryDelay: 100 * time.Millisecond,
	}
}

// Message implements messaging.Message
type Message[T any] struct {
	id       string
	payload  T
	queue    *Queue[T]
	attempts int
	mux      sync.Mutex
	settled  bool
}

// ID returns the message identifier
func (m *Message[T]) ID() string {
	return m.id
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack acknowledges the message
func (m *Message[T]) Ack() error {
	return m.settle()
}

// Nack requeues the message after RetryDelay until MaxRetries is exceeded,
// then drops it
func (m *Message[T]) Nack(_ error) error {
	if err := m.settle(); err != nil {
		return err
	}
	if m.attempts > m.queue.config.MaxRetries {
		m.queue.dropped.Add(1)
		return nil
	}
	retry := &Message[T]{id: m.id, payload: m.payload, queue: m.queue, attempts: m.attempts}
	time.AfterFunc(m.queue.config.RetryDelay, func() {
		if !m.queue.TryPublishMessage(retry) {
			m.queue.dropped.Add(1)
		}
	})
	return nil
}

func (m *Message[T]) settle() error {
	m.mux.Lock()
	defer m.mux.Unlock()
	if m.settled {
		return ErrSettled
	}
	m.settled = true
	return nil
}

// Queue implements messaging.Queue on a buffered channel
type Queue[T any] struct {
	messages chan *Message[T]
	config   Config
	dropped  atomic.Int64
}

// TryPublish adds a message unless the queue is full
func (q *Queue[T]) TryPublish(t *T) bool {
	if q.TryPublishMessage(q.newMessage(t)) {
		return true
	}
	q.dropped.Add(1)
	return false
}

// TryPublishMessage enqueues an existing message unless the queue is full
func (q *Queue[T]) TryPublishMessage(msg *Message[T]) bool {
	select {
	case q.messages <- msg:
		return true
	default:
		return false
	}
}

// Consume waits for a single message
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		msg.attempts++
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the number of queued messages
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// Dropped returns how many messages were discarded, full queue or retries exhausted
func (q *Queue[T]) Dropped() int64 {
	return q.dropped.Load()
}

func (q *Queue[T]) newMessage(t *T) *Message[T] {
	return &Message[T]{id: idgen.New(), payload: *t, queue: q}
}

// NewQueue creates an in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.Buffer <= 0 {
		config.Buffer = DefaultConfig().Buffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.Buffer),
		config:   config,
	}
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
