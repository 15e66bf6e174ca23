package machine

// Halt describes why a run stopped.
type Halt string

const (
	// HaltNone means the machine has not halted yet.
	HaltNone Halt = ""
	// HaltAccepted means the accept state was reached.
	HaltAccepted Halt = "accepted"
	// HaltNoTransition means no transition matched the current state and
	// symbol; the machine stopped without accepting.
	HaltNoTransition Halt = "noTransition"
	// HaltInterrupted means a step listener stopped the run early.
	HaltInterrupted Halt = "interrupted"
)

// IsAccepted returns true when the run ended in the accept state
func (h Halt) IsAccepted() bool {
	return h == HaltAccepted
}
