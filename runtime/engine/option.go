package engine

// Option represents a run option
type Option func(r *runner)

// Listener is notified after every applied transition. Returning an error
// stops the run with machine.HaltInterrupted.
type Listener func(step *Step) error

// WithListener registers step listeners
func WithListener(listeners ...Listener) Option {
	return func(r *runner) {
		r.listeners = append(r.listeners, listeners...)
	}
}
