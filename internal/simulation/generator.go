// Package simulation exercises the full matchmaking pipeline with
// generated guild rosters: create teams, decide an outcome, complete
// the match, repeat. It is the demo driver behind cmd and the base for
// integration-style tests.
package simulation

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/pugmate/pugmate/internal/adapters/roster"
	"github.com/pugmate/pugmate/internal/domain/model"
	"github.com/pugmate/pugmate/internal/domain/rating"
)

// Default generation constants.
const (
	defaultSeed  = 42 // deterministic rosters for reproducible runs
	tagNumberMax = 10000
)

// rankWeights shapes the rank distribution toward the middle tiers,
// the way a real guild roster looks.
var rankWeights = []struct {
	rank   model.Rank
	weight int
}{
	{model.RankBronze, 1},
	{model.RankSilver, 2},
	{model.RankGold, 4},
	{model.RankPlatinum, 4},
	{model.RankDiamond, 2},
	{model.RankMaster, 1},
	{model.RankGrandmaster, 1},
}

// roleSets covers the mix seen in practice: flex players, dual-role
// players, and one-trick specialists. DPS-only dominates.
var roleSets = [][]model.Role{
	{model.RoleTank, model.RoleDPS, model.RoleSupport},
	{model.RoleTank, model.RoleSupport},
	{model.RoleTank},
	{model.RoleDPS, model.RoleSupport},
	{model.RoleDPS},
	{model.RoleDPS},
	{model.RoleSupport},
	{model.RoleSupport, model.RoleTank},
}

var tagNames = []string{
	"Aurora", "Bastion", "Cinder", "Drift", "Ember", "Fable", "Gale",
	"Hollow", "Iris", "Jinx", "Karma", "Lumen", "Mirage", "Nova",
	"Onyx", "Pulse", "Quill", "Raven", "Sable", "Tempest",
}

// Generator produces reproducible guild rosters.
type Generator struct {
	rng    *rand.Rand
	seeder func(model.Rank) rating.Skill
}

// GeneratorOption applies a configuration option to the Generator.
type GeneratorOption func(*Generator)

// WithSeed fixes the random source for reproducible rosters.
func WithSeed(seed int64) GeneratorOption {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic seed for reproducible simulation
	}
}

// WithSeeder sets the rating seeder used for initial mu/sigma.
func WithSeeder(seeder func(model.Rank) rating.Skill) GeneratorOption {
	return func(g *Generator) {
		if seeder != nil {
			g.seeder = seeder
		}
	}
}

// NewGenerator creates a Generator with configuration options.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		rng:    rand.New(rand.NewSource(defaultSeed)), //nolint:gosec // deterministic seed for reproducible simulation
		seeder: rating.New().Seed,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Roster generates size registered players for a guild. Every player
// gets a weighted random rank, a role set, and a seeded skill belief.
func (g *Generator) Roster(guildID string, size int) []roster.Player {
	players := make([]roster.Player, size)
	for i := range players {
		rank := g.randomRank()
		skill := g.seeder(rank)
		players[i] = roster.Player{
			PlayerID:  uuid.NewString(),
			GuildID:   guildID,
			BattleTag: g.battleTag(),
			Rank:      rank,
			Roles:     model.NewRoleSet(roleSets[g.rng.Intn(len(roleSets))]...),
			Mu:        skill.Mu,
			Sigma:     skill.Sigma,
		}
	}
	return players
}

func (g *Generator) randomRank() model.Rank {
	total := 0
	for _, rw := range rankWeights {
		total += rw.weight
	}
	n := g.rng.Intn(total)
	for _, rw := range rankWeights {
		n -= rw.weight
		if n < 0 {
			return rw.rank
		}
	}
	return model.RankGold
}

func (g *Generator) battleTag() string {
	name := tagNames[g.rng.Intn(len(tagNames))]
	return fmt.Sprintf("%s#%04d", name, g.rng.Intn(tagNumberMax))
}
