package claim

// Result represents a Schedule outcome
type Result int

const (
	// Scheduled means the task was queued and the requester debited
	Scheduled Result = iota
	// AlreadyScheduled means the task was queued before; nothing changed
	AlreadyScheduled
	// AlreadyDone means the task already accepted; nothing changed
	AlreadyDone
	// NotFound means no live task has the requested ID
	NotFound
	// Contended means the task lock could not be taken in time
	Contended
)

var names = [...]string{"scheduled", "alreadyScheduled", "alreadyDone", "notFound", "contended"}

func (r Result) String() string {
	if r < 0 || int(r) >= len(names) {
		return "unknown"
	}
	return names[r]
}
