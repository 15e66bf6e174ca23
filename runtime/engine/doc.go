// Package engine implements the deterministic Turing machine interpreter.
//
// Run is pure and single threaded: it copies the tape out of the supplied
// machine, applies transitions until the accept state is reached or no
// transition matches, and reports the final tape, head, state and halt
// reason. The only side effects are the optional step listeners used for
// progress logging and checkpointing.
package engine
