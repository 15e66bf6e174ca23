// Package tracing wraps OpenTelemetry so that the claim protocol, the worker
// loop and the reclaimer can emit spans through two helpers (StartSpan and
// EndSpan). Until Init or InitWithExporter is called spans are no-op.
package tracing
