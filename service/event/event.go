package event

import (
	"github.com/viant/tooring/internal/clock"
	"time"
)

// Type represents a task lifecycle event type
type Type string

const (
	Submitted Type = "submitted"
	Scheduled Type = "scheduled"
	Executed  Type = "executed"
	Reclaimed Type = "reclaimed"
	Consumed  Type = "consumed"
)

// Context describes where an event happened
type Context struct {
	TaskID    string `json:"taskID"`
	EventType Type   `json:"eventType"`
	// Identity is the requester for scheduled events and the worker for executed ones
	Identity  string `json:"identity,omitempty"`
	Component string `json:"component"`
}

type Event[T any] struct {
	Context   *Context  `json:"context"`
	CreatedAt time.Time `json:"createdAt"`
	Data      T         `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Data:      data,
	}
}
