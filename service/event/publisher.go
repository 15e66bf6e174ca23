package event

import (
	"context"
	"github.com/viant/tooring/service/messaging"
)

// Publisher moves events through a queue
type Publisher[T any] struct {
	queue messaging.Queue[Event[T]]
}

func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{queue: queue}
}

// Publish enqueues the event without waiting; it returns false when the queue is full
func (p *Publisher[T]) Publish(event *Event[T]) bool {
	return p.queue.TryPublish(event)
}

// Consume waits for the next event; the caller settles the message
func (p *Publisher[T]) Consume(ctx context.Context) (messaging.Message[Event[T]], error) {
	return p.queue.Consume(ctx)
}
