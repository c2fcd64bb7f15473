package roster

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pugmate/pugmate/internal/domain/model"
	"github.com/pugmate/pugmate/pkg/metrics"
)

// MemoryStore is a mutex-protected in-memory Store, the reference
// collaborator used by the simulator and by tests.
type MemoryStore struct {
	mu       sync.RWMutex
	players  map[string]map[string]Player // guildID -> playerID -> record
	weights  map[string]model.Weights     // guildID -> configured weights
	defaults model.Weights
}

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithDefaultWeights overrides the weights returned for guilds that
// never configured their own. The value must already be valid.
func WithDefaultWeights(w model.Weights) MemoryOption {
	return func(s *MemoryStore) {
		if w.Validate() == nil {
			s.defaults = w
		}
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		players:  make(map[string]map[string]Player),
		weights:  make(map[string]model.Weights),
		defaults: model.DefaultWeights(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upsert registers or updates a player record.
func (s *MemoryStore) Upsert(_ context.Context, p Player) error {
	if p.PlayerID == "" || p.GuildID == "" {
		return fmt.Errorf("%w: missing player or guild id", ErrInvalidPlayer)
	}
	if !p.Rank.IsValid() {
		return fmt.Errorf("%w: unknown rank %q", ErrInvalidPlayer, p.Rank)
	}
	if len(p.Roles) == 0 {
		return fmt.Errorf("%w: no roles registered", ErrInvalidPlayer)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	guild := s.players[p.GuildID]
	if guild == nil {
		guild = make(map[string]Player)
		s.players[p.GuildID] = guild
	}
	guild[p.PlayerID] = p
	metrics.UpdateRegisteredPlayers(p.GuildID, len(guild))
	return nil
}

// Get returns a single record, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, guildID, playerID string) (Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[guildID][playerID]
	if !ok {
		return Player{}, ErrNotFound
	}
	return p, nil
}

// Resolve maps present user ids to candidates, preserving input order.
// Ids without a registered record are silently dropped.
func (s *MemoryStore) Resolve(_ context.Context, guildID string, userIDs []string) ([]model.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	guild := s.players[guildID]
	out := make([]model.Candidate, 0, len(userIDs))
	for _, id := range userIDs {
		if p, ok := guild[id]; ok {
			out = append(out, p.Candidate())
		}
	}
	return out, nil
}

// RecordResult commits a completed match atomically: it verifies every
// referenced player first and applies nothing on any miss.
func (s *MemoryStore) RecordResult(_ context.Context, guildID string, updates []SkillUpdate, draw bool, playedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	guild := s.players[guildID]
	for _, u := range updates {
		if _, ok := guild[u.PlayerID]; !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, u.PlayerID)
		}
	}

	for _, u := range updates {
		p := guild[u.PlayerID]
		p.Mu = u.Mu
		p.Sigma = u.Sigma
		switch {
		case draw:
			p.Draws++
		case u.Won:
			p.Wins++
		default:
			p.Losses++
		}
		at := playedAt
		p.LastPlayedAt = &at
		guild[u.PlayerID] = p
	}
	return nil
}

// SetWeights validates and stores guild weights.
func (s *MemoryStore) SetWeights(_ context.Context, guildID string, w model.Weights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weights[guildID] = w
	return nil
}

// Weights returns the guild's configured weights, or the defaults.
func (s *MemoryStore) Weights(_ context.Context, guildID string) (model.Weights, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if w, ok := s.weights[guildID]; ok {
		return w, nil
	}
	return s.defaults, nil
}

// PlayerIDs returns every registered player id in a guild, sorted for
// deterministic iteration.
func (s *MemoryStore) PlayerIDs(_ context.Context, guildID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	guild := s.players[guildID]
	ids := make([]string, 0, len(guild))
	for id := range guild {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of registered players in a guild.
func (s *MemoryStore) Count(_ context.Context, guildID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players[guildID])
}
