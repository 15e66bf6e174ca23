// Package processor hosts the worker loops. Every loop repeatedly asks the
// selector for the best eligible task, claims it under the task lock, runs
// the machine to completion, persists the outcome and credits the worker.
// Loops share nothing but the store, so any number of them may run in one
// or many processes.
package processor
