package graph

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// NameGenerator produces names for values the graph synthesizes itself
// (Load/Store outputs created by Graph.Create). Grounded on the
// UUIDv7Generator / FixedGenerator split used for flow tokens elsewhere in
// the corpus: production code gets real, time-sortable UUIDs; tests get a
// deterministic, exhaustible sequence so golden output stays byte-stable.
type NameGenerator interface {
	Generate() string
}

// UUIDv7Generator names values with a "v" prefix and a UUIDv7 suffix.
// UUIDv7 embeds a timestamp, so names this generator produces sort in
// creation order — convenient when eyeballing a dumped graph.
type UUIDv7Generator struct{}

func (UUIDv7Generator) Generate() string {
	return "v" + uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns a predetermined sequence of names, then panics if
// exhausted — a test wiring bug, not a runtime condition to recover from.
type FixedGenerator struct {
	mu     sync.Mutex
	Names  []string
	cursor int
}

func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cursor >= len(g.Names) {
		panic(fmt.Sprintf("FixedGenerator exhausted after %d names", len(g.Names)))
	}
	n := g.Names[g.cursor]
	g.cursor++
	return n
}
