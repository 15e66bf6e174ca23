package messaging

import (
	"context"
)

// Queue represents a message queue for any payload type
type Queue[T any] interface {
	// TryPublish adds a message without waiting; it returns false when the queue is full
	TryPublish(t *T) bool

	// Consume waits for a single message
	Consume(ctx context.Context) (Message[T], error)
}

// Message represents a message retrieved from a queue
type Message[T any] interface {
	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error

	// Nack indicates failure in processing this message; it may be redelivered
	Nack(err error) error
}
