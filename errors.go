package tooring

import "errors"

var (
	// ErrTaskLocked is returned when consuming a task another process holds
	ErrTaskLocked = errors.New("tooring: task is locked")

	// ErrInvalidMachine is returned when submitting a nil machine
	ErrInvalidMachine = errors.New("tooring: invalid machine")
)
