// Package selection picks the ten players for the next match under
// per-role quotas, favoring whoever has waited longest.
package selection

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/pugmate/pugmate/internal/domain/model"
)

// hoursPerDay converts elapsed time into fractional days for scoring.
const hoursPerDay = 24

// ScoreFunc orders played candidates for selection. It receives the
// candidate and its raw priority score (fractional days since the last
// match) and returns the value to sort by, higher first. Never-played
// candidates bypass the hook entirely and always sort to the front.
type ScoreFunc func(c model.Candidate, priority float64) float64

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithClock sets the time source used to measure recency.
func WithClock(now func() time.Time) Option {
	return func(s *Selector) {
		if now != nil {
			s.now = now
		}
	}
}

// WithScoreFunc sets a custom ordering hook for played candidates.
func WithScoreFunc(fn ScoreFunc) Option {
	return func(s *Selector) {
		if fn != nil {
			s.score = fn
		}
	}
}

// Selector chooses ten role-assigned candidates from an arbitrary pool.
type Selector struct {
	now   func() time.Time
	score ScoreFunc
}

// New creates a Selector with configuration options.
func New(opts ...Option) *Selector {
	s := &Selector{
		now:   time.Now,
		score: func(_ model.Candidate, priority float64) float64 { return priority },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result holds the ten selected entries, grouped by role in fill order.
type Result struct {
	Entries []model.SelectionEntry
}

// Priority returns the raw priority score for a candidate: fractional
// days since the last completed match across any role, or +Inf for a
// candidate who has never played.
func (s *Selector) Priority(c model.Candidate) float64 {
	if c.LastPlayedAt == nil {
		return math.Inf(1)
	}
	return s.now().Sub(*c.LastPlayedAt).Hours() / hoursPerDay
}

// Select chooses exactly ten candidates, each locked to one of their
// registered roles. It is a pure function of the pool snapshot: the same
// input always yields the same output.
func (s *Selector) Select(_ context.Context, pool []model.Candidate) (Result, error) {
	required := model.PoolSize
	if len(pool) < required {
		return Result{}, &InsufficientPlayersError{Required: required, Found: len(pool)}
	}

	type ranked struct {
		cand     model.Candidate
		priority float64
		order    int // input position, the deterministic tiebreak
	}

	queue := make([]ranked, len(pool))
	for i, c := range pool {
		queue[i] = ranked{cand: c, priority: s.Priority(c), order: i}
	}

	// Never-played candidates come first in input order; the rest sort by
	// the score hook, highest first. SliceStable keeps input order for ties.
	sort.SliceStable(queue, func(i, j int) bool {
		iInf := math.IsInf(queue[i].priority, 1)
		jInf := math.IsInf(queue[j].priority, 1)
		if iInf != jInf {
			return iInf
		}
		if iInf {
			return queue[i].order < queue[j].order
		}
		return s.score(queue[i].cand, queue[i].priority) > s.score(queue[j].cand, queue[j].priority)
	})

	quota := model.PoolQuota()
	assigned := make(map[string]model.Role, required)
	picked := make(map[model.Role][]model.SelectionEntry, len(quota))
	var deficits []RoleDeficit

	for _, role := range model.FillOrder() {
		need := quota[role]
		for _, r := range queue {
			if len(picked[role]) == need {
				break
			}
			if _, taken := assigned[r.cand.PlayerID]; taken {
				continue
			}
			if !r.cand.Roles.Has(role) {
				continue
			}
			assigned[r.cand.PlayerID] = role
			picked[role] = append(picked[role], model.SelectionEntry{
				Candidate:    r.cand,
				AssignedRole: role,
				Priority:     r.priority,
			})
		}
		if have := len(picked[role]); have < need {
			deficits = append(deficits, RoleDeficit{Role: role, Required: need, Available: have})
		}
	}

	if len(deficits) > 0 {
		return Result{}, &CompositionError{Deficits: deficits}
	}

	entries := make([]model.SelectionEntry, 0, required)
	for _, role := range model.FillOrder() {
		entries = append(entries, picked[role]...)
	}
	return Result{Entries: entries}, nil
}
