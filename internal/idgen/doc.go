// Package idgen generates task and message identifiers. Identifiers are
// random UUID strings, so any process may submit tasks without a central
// allocator; callers treat them as opaque.
package idgen
