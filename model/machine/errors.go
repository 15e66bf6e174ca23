package machine

import "errors"

var (
	// ErrConflictingTransition is returned when two transitions share the
	// same (readState, readSymbol) pair.
	ErrConflictingTransition = errors.New("machine: conflicting transition")

	// ErrInvalidSymbol is returned when a symbol is not exactly one character.
	ErrInvalidSymbol = errors.New("machine: symbol must be a single character")

	// ErrStartStateMissing is returned by Validate when no start state is set.
	ErrStartStateMissing = errors.New("machine: start state is not set")

	// ErrAcceptStateMissing is returned by Validate when no accept state is set.
	ErrAcceptStateMissing = errors.New("machine: accept state is not set")
)
