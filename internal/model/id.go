package model

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces unique identifiers for routines, tasks and manual
// firing keys. Implemented by UUIDGenerator (production) and SequenceGenerator
// (tests).
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates time-sortable UUIDv7 identifiers.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDGenerator struct{}

// NewID returns a hyphenated UUIDv7. Panics if the random source fails.
func (UUIDGenerator) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SequenceGenerator returns "<prefix>-1", "<prefix>-2", ... for deterministic
// tests and golden output.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceGenerator creates a generator. An empty prefix means "id".
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &SequenceGenerator{prefix: prefix}
}

// NewID returns the next identifier in sequence.
func (g *SequenceGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
