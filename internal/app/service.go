// Package app composes player resolution, priority selection, team
// balancing and skill rating into the matchmaking service.
package app

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/pugmate/pugmate/internal/adapters/leaderboard"
	"github.com/pugmate/pugmate/internal/adapters/roster"
	"github.com/pugmate/pugmate/internal/domain/balance"
	"github.com/pugmate/pugmate/internal/domain/dedupe"
	"github.com/pugmate/pugmate/internal/domain/model"
	"github.com/pugmate/pugmate/internal/domain/rating"
	"github.com/pugmate/pugmate/internal/domain/selection"
	"github.com/pugmate/pugmate/pkg/logger"
	"github.com/pugmate/pugmate/pkg/metrics"
)

// priorityHalfLifeDays controls how recency saturates in the combined
// selection score: a player idle this many days scores 0.5 on the
// priority axis.
const priorityHalfLifeDays = 7.0

// Outcome is the result of a completed match.
type Outcome int

// Possible match outcomes.
const (
	OutcomeTeamOneWin Outcome = iota
	OutcomeTeamTwoWin
	OutcomeDraw
)

// Match is one produced team assignment, identified for later completion.
type Match struct {
	ID        string
	GuildID   string
	TeamOne   []model.SelectionEntry
	TeamTwo   []model.SelectionEntry
	CreatedAt time.Time
}

// ResultRecorder receives the atomic persistence hand-off for a
// completed match. roster.Store satisfies it.
type ResultRecorder interface {
	RecordResult(ctx context.Context, guildID string, updates []roster.SkillUpdate, draw bool, playedAt time.Time) error
}

// Service is the matchmaking orchestrator. It holds no per-match state:
// every call is a pure function of its inputs and collaborators, so
// independent guilds may call it concurrently. Serializing match
// creation within one guild is the caller's job.
type Service struct {
	players  roster.PlayerLookup
	weights  roster.WeightsLookup
	engine   *rating.Engine
	balancer *balance.Balancer
	guard    dedupe.Guard
	recorder ResultRecorder
	board    leaderboard.Store
	clock    func() time.Time
	logger   logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithPlayerLookup sets the player resolution collaborator.
func WithPlayerLookup(l roster.PlayerLookup) Option {
	return func(s *Service) {
		if l != nil {
			s.players = l
		}
	}
}

// WithWeightsLookup sets the guild weights collaborator.
func WithWeightsLookup(l roster.WeightsLookup) Option {
	return func(s *Service) {
		if l != nil {
			s.weights = l
		}
	}
}

// WithRatingEngine sets a custom-tuned rating engine.
func WithRatingEngine(e *rating.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithResultRecorder sets where completed matches are persisted.
func WithResultRecorder(r ResultRecorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithLeaderboard sets an SR leaderboard to refresh on completion.
func WithLeaderboard(b leaderboard.Store) Option {
	return func(s *Service) {
		if b != nil {
			s.board = b
		}
	}
}

// WithCompletionGuard sets the idempotency guard for match completion.
func WithCompletionGuard(g dedupe.Guard) Option {
	return func(s *Service) {
		if g != nil {
			s.guard = g
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.clock = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. A player lookup is required for match
// creation; everything else has working defaults.
func New(opts ...Option) *Service {
	s := &Service{
		engine:   rating.New(),
		balancer: balance.New(),
		guard:    dedupe.NewMemoryGuard(),
		clock:    time.Now,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateMatchTeams resolves the present users of a guild, selects ten of
// them under the role quotas and splits them into two balanced teams.
// Identifiers without a registered player are dropped, not errors.
// Selector failures propagate verbatim; nothing partial is ever returned.
func (s *Service) CreateMatchTeams(ctx context.Context, presentUserIDs []string, guildID string) (Match, error) {
	if s.players == nil {
		return Match{}, ErrNoPlayerLookup
	}
	pool, err := s.players.Resolve(ctx, guildID, presentUserIDs)
	if err != nil {
		return Match{}, err
	}
	if dropped := len(presentUserIDs) - len(pool); dropped > 0 {
		s.logger.Debug(ctx, "dropped unregistered users",
			logger.String("guildID", guildID),
			logger.Int("dropped", dropped),
		)
	}

	w := model.DefaultWeights()
	if s.weights != nil {
		w, err = s.weights.Weights(ctx, guildID)
		if err != nil {
			return Match{}, err
		}
	}
	if err := w.Validate(); err != nil {
		metrics.RecordSelectionFailure("invalid_weights")
		return Match{}, err
	}

	selector := selection.New(
		selection.WithClock(s.clock),
		selection.WithScoreFunc(combinedScore(w, pool)),
	)
	result, err := selector.Select(ctx, pool)
	if err != nil {
		metrics.RecordSelectionFailure(failureReason(err))
		s.logger.Info(ctx, "matchmaking failed",
			logger.String("guildID", guildID),
			logger.Error(err),
		)
		return Match{}, err
	}

	assignment := s.balancer.Split(result.Entries)
	gap := balance.Gap(assignment)
	metrics.RecordMatchCreated()
	metrics.RecordTeamRankGap(gap)

	m := Match{
		ID:        uuid.NewString(),
		GuildID:   guildID,
		TeamOne:   assignment.TeamOne,
		TeamTwo:   assignment.TeamTwo,
		CreatedAt: s.clock(),
	}
	s.logger.Info(ctx, "match teams created",
		logger.String("guildID", guildID),
		logger.String("matchID", m.ID),
		logger.Int("rankGap", gap),
	)
	return m, nil
}

// SeedRating returns the initial skill belief for a rank tier; used at
// registration time.
func (s *Service) SeedRating(rank model.Rank) rating.Skill {
	return s.engine.Seed(rank)
}

// UpdatePostMatch applies the team-versus-team Bayesian update and
// returns the new beliefs. The caller persists them.
func (s *Service) UpdatePostMatch(winners, losers []rating.Skill, draw bool) ([]rating.Skill, []rating.Skill) {
	return s.engine.UpdatePostMatch(winners, losers, draw)
}

// CompleteMatch applies the rating update for a finished match and hands
// the result to the recorder as one atomic unit. A match id that was
// already completed returns ErrDuplicateResult and changes nothing; a
// failed persistence releases the id so the completion can be retried.
func (s *Service) CompleteMatch(ctx context.Context, m Match, outcome Outcome) error {
	if s.recorder == nil {
		return ErrNoRecorder
	}
	if s.guard.SeenAndRecord(ctx, m.ID) {
		metrics.RecordDuplicateResult()
		return ErrDuplicateResult
	}

	winnerTeam, loserTeam := m.TeamOne, m.TeamTwo
	if outcome == OutcomeTeamTwoWin {
		winnerTeam, loserTeam = m.TeamTwo, m.TeamOne
	}
	draw := outcome == OutcomeDraw

	winners, losers := s.engine.UpdatePostMatch(skills(winnerTeam), skills(loserTeam), draw)

	updates := make([]roster.SkillUpdate, 0, len(winnerTeam)+len(loserTeam))
	updates = appendUpdates(updates, winnerTeam, winners, !draw)
	updates = appendUpdates(updates, loserTeam, losers, false)

	if err := s.recorder.RecordResult(ctx, m.GuildID, updates, draw, s.clock()); err != nil {
		s.guard.Unrecord(ctx, m.ID)
		return err
	}

	metrics.RecordRatingUpdates(len(updates))
	for _, sk := range winners {
		if s.engine.AtFloor(sk) {
			metrics.RecordSigmaAtFloor()
		}
	}
	for _, sk := range losers {
		if s.engine.AtFloor(sk) {
			metrics.RecordSigmaAtFloor()
		}
	}
	if draw {
		metrics.RecordMatchCompleted("draw")
	} else {
		metrics.RecordMatchCompleted("decisive")
	}

	if s.board != nil {
		refreshBoard(ctx, s.board, winnerTeam, winners)
		refreshBoard(ctx, s.board, loserTeam, losers)
	}

	s.logger.Info(ctx, "match completed",
		logger.String("guildID", m.GuildID),
		logger.String("matchID", m.ID),
		logger.Any("outcome", outcome),
	)
	return nil
}

// combinedScore builds the selection ordering hook from guild weights:
// a weighted blend of recency (saturating at the priority half-life)
// and rank closeness to the pool mean. Never-played candidates are
// handled before the hook and always win.
func combinedScore(w model.Weights, pool []model.Candidate) selection.ScoreFunc {
	mean := 0.0
	if len(pool) > 0 {
		for _, c := range pool {
			mean += float64(c.Rank.Ordinal())
		}
		mean /= float64(len(pool))
	}
	maxSpread := float64(model.RankGrandmaster.Ordinal() - model.RankBronze.Ordinal())

	return func(c model.Candidate, priority float64) float64 {
		recency := priority / (priority + priorityHalfLifeDays)
		fairness := 1 - math.Abs(float64(c.Rank.Ordinal())-mean)/maxSpread
		return w.Priority*recency + w.Fairness*fairness
	}
}

// failureReason labels a selection error for metrics.
func failureReason(err error) string {
	switch {
	case errors.Is(err, selection.ErrInsufficientPlayers):
		return "insufficient_players"
	case errors.Is(err, selection.ErrInsufficientRoleComposition):
		return "role_composition"
	default:
		return "other"
	}
}

func skills(team []model.SelectionEntry) []rating.Skill {
	out := make([]rating.Skill, len(team))
	for i, e := range team {
		out[i] = rating.Skill{Mu: e.Candidate.Mu, Sigma: e.Candidate.Sigma}
	}
	return out
}

func appendUpdates(dst []roster.SkillUpdate, team []model.SelectionEntry, updated []rating.Skill, won bool) []roster.SkillUpdate {
	for i, e := range team {
		dst = append(dst, roster.SkillUpdate{
			PlayerID: e.Candidate.PlayerID,
			Mu:       updated[i].Mu,
			Sigma:    updated[i].Sigma,
			Won:      won,
		})
	}
	return dst
}

func refreshBoard(ctx context.Context, board leaderboard.Store, team []model.SelectionEntry, updated []rating.Skill) {
	for i, e := range team {
		board.Set(ctx, e.Candidate.BattleTag, updated[i].SR())
	}
}
