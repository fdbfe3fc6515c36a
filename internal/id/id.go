// Package id issues ULID identifiers for journaled runs. ULIDs embed a
// millisecond timestamp, so run records sort by creation time under a
// plain string index, which is what the results store wants.
package id

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator produces ULID strings from an entropy source. The monotonic
// wrapper keeps IDs issued within the same millisecond lexicographically
// increasing.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

// NewGenerator builds a Generator reading entropy from r; a nil r uses
// crypto/rand.
func NewGenerator(r io.Reader) *Generator {
	if r == nil {
		r = rand.Reader
	}
	return &Generator{
		entropy: ulid.Monotonic(r, 0),
		now:     time.Now,
	}
}

// New returns the next ULID string.
func (g *Generator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(g.now().UTC()), g.entropy)
	if err != nil {
		// Only possible if the clock runs backwards or entropy fails.
		panic(err)
	}
	return id.String()
}

var defaultGen = NewGenerator(nil)

// New returns a ULID string from the process-wide generator.
func New() string { return defaultGen.New() }
