// Package roster provides the player and weights stores the matchmaking
// core consumes. The core never persists anything itself; these stores
// own player records and guild configuration.
package roster

import (
	"context"
	"time"

	"github.com/pugmate/pugmate/internal/domain/model"
)

// Player is the registration record for one guild member.
type Player struct {
	PlayerID     string
	GuildID      string
	BattleTag    string
	Rank         model.Rank
	Roles        model.RoleSet
	Mu           float64
	Sigma        float64
	Wins         int
	Losses       int
	Draws        int
	LastPlayedAt *time.Time
}

// Candidate converts the record into the snapshot the core consumes.
func (p Player) Candidate() model.Candidate {
	return model.Candidate{
		PlayerID:     p.PlayerID,
		BattleTag:    p.BattleTag,
		Rank:         p.Rank,
		Roles:        p.Roles,
		Mu:           p.Mu,
		Sigma:        p.Sigma,
		LastPlayedAt: p.LastPlayedAt,
	}
}

// PlayerLookup resolves present user ids to matchmaking candidates.
// Unregistered ids are simply absent from the result, never an error.
type PlayerLookup interface {
	Resolve(ctx context.Context, guildID string, userIDs []string) ([]model.Candidate, error)
}

// WeightsLookup returns a guild's configured matchmaking weights,
// falling back to the defaults when the guild has none.
type WeightsLookup interface {
	Weights(ctx context.Context, guildID string) (model.Weights, error)
}

// SkillUpdate carries one player's post-match state back to the store.
type SkillUpdate struct {
	PlayerID string
	Mu       float64
	Sigma    float64
	Won      bool
}

// Store is the full read/write surface over player records.
type Store interface {
	PlayerLookup
	WeightsLookup

	// Upsert registers or updates a player. Records with no roles or an
	// unknown rank are rejected.
	Upsert(ctx context.Context, p Player) error

	// Get returns a single record, or ErrNotFound.
	Get(ctx context.Context, guildID, playerID string) (Player, error)

	// RecordResult commits a completed match for one guild as a single
	// unit: skill values, win/loss/draw counters and last-played stamps
	// either all apply or none do.
	RecordResult(ctx context.Context, guildID string, updates []SkillUpdate, draw bool, playedAt time.Time) error

	// SetWeights validates and stores guild weights. Invalid weights are
	// rejected here, at write time, so match time never sees them.
	SetWeights(ctx context.Context, guildID string, w model.Weights) error

	// Count returns the number of registered players in a guild.
	Count(ctx context.Context, guildID string) int
}
