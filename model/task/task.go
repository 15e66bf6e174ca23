package task

import (
	"github.com/viant/tooring/internal/clock"
	"github.com/viant/tooring/model/machine"
	"time"
)

// Task represents a submitted machine and its scheduling state
type Task struct {
	ID        string           `json:"id"`
	Machine   *machine.Machine `json:"machine"`
	Owner     string           `json:"owner,omitempty"`
	Scheduled bool             `json:"scheduled"`
	Busy      bool             `json:"busy"`
	Done      bool             `json:"done"`
	Halt      machine.Halt     `json:"halt,omitempty"`
	Steps     int              `json:"steps,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// NewTask creates an unscheduled task
func NewTask(id string, m *machine.Machine) *Task {
	now := clock.Now()
	return &Task{ID: id, Machine: m, CreatedAt: now, UpdatedAt: now}
}

// IsEligible returns true if a worker may pick the task
func (t *Task) IsEligible() bool {
	return t.Scheduled && !t.Busy && !t.Done
}

// Schedule marks the task as scheduled on behalf of owner
func (t *Task) Schedule(owner string) {
	t.Owner = owner
	t.Scheduled = true
	t.touch()
}

// Start marks the task as being executed
func (t *Task) Start() {
	t.Busy = true
	t.touch()
}

// Checkpoint records partial progress while the task is still executing
func (t *Task) Checkpoint(steps int) {
	t.Steps = steps
	t.touch()
}

// Finish records the run outcome. A task that did not reach the accept state
// leaves the scheduled queue and has to be scheduled again.
func (t *Task) Finish(halt machine.Halt, steps int) {
	t.Halt = halt
	t.Steps = steps
	t.Done = halt.IsAccepted()
	t.Busy = false
	t.Scheduled = false
	t.touch()
}

// Reclaim clears the busy flag left behind by a crashed executor
func (t *Task) Reclaim() {
	t.Busy = false
	t.touch()
}

func (t *Task) touch() {
	t.UpdatedAt = clock.Now()
}

// Clone creates a deep copy of the task
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	clone := *t
	clone.Machine = t.Machine.Clone()
	return &clone
}
