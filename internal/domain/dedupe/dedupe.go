// Package dedupe guards match completion against double application.
// A completion reported twice must never apply rating updates twice.
package dedupe

import (
	"context"
	"sync"
)

// defaultMaxSize bounds how many completed match ids stay in memory.
const defaultMaxSize = 10000

// Guard records completed match ids for at-most-once processing.
type Guard interface {
	// SeenAndRecord atomically checks whether id was seen and records it
	// if not. Returns true if id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an id, allowing a failed completion to be retried.
	Unrecord(ctx context.Context, id string)

	// Size returns the number of ids currently tracked.
	Size() int
}

// Option applies a configuration option to the guard.
type Option func(*memoryGuard)

// WithMaxSize bounds the number of remembered ids. Oldest entries are
// evicted first. Zero or negative means unbounded.
func WithMaxSize(n int) Option {
	return func(g *memoryGuard) {
		g.maxSize = n
	}
}

// memoryGuard is a mutex-protected set with FIFO eviction.
type memoryGuard struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // insertion order for eviction
	maxSize int
}

// NewMemoryGuard creates an in-memory Guard with configuration options.
func NewMemoryGuard(opts ...Option) Guard {
	g := &memoryGuard{
		seen:    make(map[string]struct{}),
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *memoryGuard) SeenAndRecord(_ context.Context, id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[id]; ok {
		return true
	}
	g.seen[id] = struct{}{}
	g.order = append(g.order, id)
	if g.maxSize > 0 && len(g.order) > g.maxSize {
		oldest := g.order[0]
		g.order = g.order[1:]
		delete(g.seen, oldest)
	}
	return false
}

func (g *memoryGuard) Unrecord(_ context.Context, id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[id]; !ok {
		return
	}
	delete(g.seen, id)
	for i, v := range g.order {
		if v == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

func (g *memoryGuard) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}
