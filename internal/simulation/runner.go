package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/pugmate/pugmate/internal/adapters/roster"
	"github.com/pugmate/pugmate/internal/app"
	"github.com/pugmate/pugmate/internal/domain/model"
	"github.com/pugmate/pugmate/internal/domain/selection"
	"github.com/pugmate/pugmate/pkg/logger"
	"github.com/pugmate/pugmate/pkg/metrics"
)

// Default runner configuration constants.
const (
	defaultTickInterval = time.Second
	defaultDrawRate     = 0.1
	performanceNoise    = 2.0 // rank-sum jitter when deciding a winner
	msPerTick           = 1e6 // nanoseconds per millisecond
)

// Runner drives one simulated scrim night per guild. Guilds run
// concurrently; within a guild, matches are strictly sequential, which
// is exactly the one-in-flight-per-guild rule the core expects its
// caller to enforce.
type Runner struct {
	svc    *app.Service
	store  *roster.MemoryStore
	guilds []string

	tickInterval time.Duration
	drawRate     float64
	rng          *rand.Rand
	rngMu        sync.Mutex
	logger       logger.Logger
}

// RunnerOption applies a configuration option to the Runner.
type RunnerOption func(*Runner)

// WithTickInterval sets the pause between simulated matches.
func WithTickInterval(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.tickInterval = d
		}
	}
}

// WithDrawRate sets the fraction of matches that end drawn, in [0,1].
func WithDrawRate(rate float64) RunnerOption {
	return func(r *Runner) {
		if rate >= 0 && rate <= 1 {
			r.drawRate = rate
		}
	}
}

// WithRunnerSeed fixes the outcome randomness for reproducible runs.
func WithRunnerSeed(seed int64) RunnerOption {
	return func(r *Runner) {
		r.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic seed for reproducible simulation
	}
}

// WithRunnerLogger sets a custom logger for the runner.
func WithRunnerLogger(l logger.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a Runner over the given service and store.
func NewRunner(svc *app.Service, store *roster.MemoryStore, guilds []string, opts ...RunnerOption) *Runner {
	r := &Runner{
		svc:          svc,
		store:        store,
		guilds:       guilds,
		tickInterval: defaultTickInterval,
		drawRate:     defaultDrawRate,
		rng:          rand.New(rand.NewSource(defaultSeed)), //nolint:gosec // deterministic seed for reproducible simulation
		logger:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Bootstrap registers a generated roster for every guild.
func (r *Runner) Bootstrap(ctx context.Context, gen *Generator, rosterSize int) error {
	for _, guildID := range r.guilds {
		for _, p := range gen.Roster(guildID, rosterSize) {
			if err := r.store.Upsert(ctx, p); err != nil {
				return fmt.Errorf("bootstrap guild %s: %w", guildID, err)
			}
		}
		r.logger.Info(ctx, "guild roster ready",
			logger.String("guildID", guildID),
			logger.Int("players", r.store.Count(ctx, guildID)),
		)
	}
	return nil
}

// Run simulates matches until the context is cancelled. Each guild
// loops independently: create teams from everyone currently registered,
// decide an outcome from latent skill, complete the match.
func (r *Runner) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, guildID := range r.guilds {
		wg.Add(1)
		go func(guildID string) {
			defer wg.Done()
			r.runGuild(ctx, guildID)
		}(guildID)
	}
	wg.Wait()
}

func (r *Runner) runGuild(ctx context.Context, guildID string) {
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			if err := r.Tick(ctx, guildID); err != nil {
				r.logger.Warn(ctx, "simulated match failed",
					logger.String("guildID", guildID),
					logger.Error(err),
				)
			}
			metrics.RecordSimulationTick(float64(time.Since(start).Nanoseconds()) / msPerTick)
		}
	}
}

// Tick runs exactly one match cycle for a guild.
func (r *Runner) Tick(ctx context.Context, guildID string) error {
	present := r.presentPlayers(ctx, guildID)

	match, err := r.svc.CreateMatchTeams(ctx, present, guildID)
	if err != nil {
		// A thin roster is expected on small guilds, not a defect.
		if errors.Is(err, selection.ErrInsufficientPlayers) || errors.Is(err, selection.ErrInsufficientRoleComposition) {
			r.logger.Debug(ctx, "skipping tick", logger.String("guildID", guildID), logger.Error(err))
			return nil
		}
		return err
	}

	return r.svc.CompleteMatch(ctx, match, r.decideOutcome(match))
}

// presentPlayers returns every registered player id in random order,
// standing in for a voice-channel poll.
func (r *Runner) presentPlayers(ctx context.Context, guildID string) []string {
	ids := r.store.PlayerIDs(ctx, guildID)
	r.rngMu.Lock()
	r.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	r.rngMu.Unlock()
	return ids
}

// decideOutcome picks a winner from jittered latent strength so better
// teams win more often without making results deterministic.
func (r *Runner) decideOutcome(m app.Match) app.Outcome {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()

	if r.rng.Float64() < r.drawRate {
		return app.OutcomeDraw
	}
	one := float64(model.RankSum(m.TeamOne)) + r.rng.NormFloat64()*performanceNoise
	two := float64(model.RankSum(m.TeamTwo)) + r.rng.NormFloat64()*performanceNoise
	if one >= two {
		return app.OutcomeTeamOneWin
	}
	return app.OutcomeTeamTwoWin
}
