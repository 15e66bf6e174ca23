package event

import (
	"github.com/viant/tooring/model/machine"
	"github.com/viant/tooring/model/task"
	"github.com/viant/tooring/service/messaging"
	"github.com/viant/tooring/service/messaging/memory"
	"github.com/viant/tooring/service/metrics"
	"sync"
)

// Task is the task snapshot carried by lifecycle events; the tape is
// included, the transition table is not.
type Task struct {
	ID        string       `json:"id"`
	Owner     string       `json:"owner,omitempty"`
	Scheduled bool         `json:"scheduled"`
	Busy      bool         `json:"busy"`
	Done      bool         `json:"done"`
	Halt      machine.Halt `json:"halt,omitempty"`
	Steps     int          `json:"steps,omitempty"`
	Tape      string       `json:"tape"`
	Head      int          `json:"head"`
	State     string       `json:"state,omitempty"`
}

// NewTask creates an event snapshot of the task
func NewTask(aTask *task.Task) Task {
	ret := Task{
		ID:        aTask.ID,
		Owner:     aTask.Owner,
		Scheduled: aTask.Scheduled,
		Busy:      aTask.Busy,
		Done:      aTask.Done,
		Halt:      aTask.Halt,
		Steps:     aTask.Steps,
	}
	if m := aTask.Machine; m != nil {
		ret.Tape, ret.Head, ret.State = m.Tape, m.Head, m.CurrentState
	}
	return ret
}

// Service publishes task lifecycle events of this process to a single
// listener. Events are only queued while a listener is set; when the
// listener falls behind and the queue fills up, events are dropped rather
// than stalling workers. An event the listener fails to handle is
// redelivered as the queue allows.
type Service struct {
	queue     messaging.Queue[Event[Task]]
	publisher *Publisher[Task]
	metrics   *metrics.Metrics
	mux       sync.RWMutex
	listener  *Listener[Task]
}

// Publish emits an event for the task. It is a no-op on a nil service or
// when no listener is set.
func (s *Service) Publish(eventType Type, component, identity string, aTask *task.Task) {
	if s == nil || aTask == nil {
		return
	}
	s.mux.RLock()
	listening := s.listener != nil
	s.mux.RUnlock()
	if !listening {
		return
	}
	event := NewEvent(&Context{TaskID: aTask.ID, EventType: eventType, Identity: identity, Component: component}, NewTask(aTask))
	s.publisher.Publish(event)
}

// SetListener replaces the listener; a nil handler removes it
func (s *Service) SetListener(handler Handler[Task]) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.listener != nil {
		s.listener.Stop()
		s.listener = nil
	}
	if handler == nil {
		return
	}
	s.listener = NewListener[Task](s.publisher, func(event *Event[Task]) error {
		err := handler(event)
		if err != nil {
			s.metrics.ObserveFailure("event")
		}
		return err
	})
	s.listener.Start()
}

// Stop removes the listener
func (s *Service) Stop() {
	if s == nil {
		return
	}
	s.SetListener(nil)
}

type queueStats interface {
	Size() int
	Dropped() int64
}

func New(options ...Option) *Service {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if ret.queue == nil {
		ret.queue = memory.NewQueue[Event[Task]](memory.DefaultConfig())
	}
	if stats, ok := ret.queue.(queueStats); ok {
		// only fails on a collector name clash within the registry
		_ = ret.metrics.RegisterQueue("events", stats.Size, stats.Dropped)
	}
	ret.publisher = NewPublisher[Task](ret.queue)
	return ret
}
