// Package leaderboard tracks the conservative displayable rating (SR)
// per battle tag and serves ranked views of it.
//
// Ordering: SR DESC, then battle tag ASC (deterministic).
package leaderboard

import (
	"context"
	"sort"
	"sync"

	"github.com/pugmate/pugmate/pkg/metrics"
)

// Entry is one leaderboard row.
type Entry struct {
	Position  int
	BattleTag string
	SR        int
}

// Store provides read/write access to the SR standings.
type Store interface {
	// Set records the current SR for a battle tag. Unlike a best-score
	// board, SR moves in both directions.
	Set(ctx context.Context, battleTag string, sr int)

	// TopN returns the best n entries. Returns ErrInvalidLimit for n < 1.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Position returns the entry for one battle tag, or ErrNotFound.
	Position(ctx context.Context, battleTag string) (Entry, error)

	// Count returns the number of tracked battle tags.
	Count(ctx context.Context) int
}

// MemoryBoard is a mutex-protected in-memory Store. The player counts
// here are small (one guild's roster), so ranked views are sorted on
// demand instead of kept in an ordered structure.
type MemoryBoard struct {
	mu  sync.RWMutex
	srs map[string]int
}

// NewMemoryBoard creates an empty in-memory leaderboard.
func NewMemoryBoard() *MemoryBoard {
	return &MemoryBoard{srs: make(map[string]int)}
}

// Set records the current SR for a battle tag.
func (b *MemoryBoard) Set(_ context.Context, battleTag string, sr int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.srs[battleTag] = sr
	metrics.UpdateLeaderboardSize(len(b.srs))
}

// TopN returns the best n entries.
func (b *MemoryBoard) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	ranked := b.ranked()
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n], nil
}

// Position returns the entry for one battle tag.
func (b *MemoryBoard) Position(_ context.Context, battleTag string) (Entry, error) {
	for _, e := range b.ranked() {
		if e.BattleTag == battleTag {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

// Count returns the number of tracked battle tags.
func (b *MemoryBoard) Count(_ context.Context) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.srs)
}

// ranked builds the ordered view under the read lock.
func (b *MemoryBoard) ranked() []Entry {
	b.mu.RLock()
	entries := make([]Entry, 0, len(b.srs))
	for tag, sr := range b.srs {
		entries = append(entries, Entry{BattleTag: tag, SR: sr})
	}
	b.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].SR != entries[j].SR {
			return entries[i].SR > entries[j].SR
		}
		return entries[i].BattleTag < entries[j].BattleTag
	})
	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries
}
