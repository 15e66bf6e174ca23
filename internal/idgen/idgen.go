package idgen

import "github.com/google/uuid"

// NewFunc generates identifiers; tests may replace it for predictable IDs
var NewFunc = uuid.NewString

// New returns a random identifier, unique across processes without coordination
func New() string { return NewFunc() }
