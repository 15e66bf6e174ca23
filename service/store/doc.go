// Package store defines the shared substrate used to coordinate independent
// workers: a key-value map with per-entry TTL, per-key exclusive locks and
// atomic counters.
//
// Two implementations are provided: memory, for tests and single process
// deployments, and consul, backed by a HashiCorp Consul cluster.
package store
