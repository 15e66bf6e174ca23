package event

import (
	"context"
	"sync"
)

// Handler processes a delivered event. A returned error nacks the event so
// that the queue may redeliver it.
type Handler[T any] func(*Event[T]) error

// Listener delivers consumed events to a handler on its own goroutine
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   Handler[T]
	ctx       context.Context
	cancelFn  context.CancelFunc
	wg        sync.WaitGroup
}

func NewListener[T any](publisher *Publisher[T], handler Handler[T]) *Listener[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		ctx:       ctx,
		cancelFn:  cancel,
	}
}

// Stop cancels the listener and waits for the running handler to return
func (l *Listener[T]) Stop() {
	l.cancelFn()
	l.wg.Wait()
}

func (l *Listener[T]) Start() {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		for {
			msg, err := l.publisher.Consume(l.ctx)
			if err != nil || msg == nil {
				if l.ctx.Err() != nil {
					return
				}
				continue
			}
			if err = l.handler(msg.T()); err != nil {
				_ = msg.Nack(err)
				continue
			}
			_ = msg.Ack()
		}
	}()
}
