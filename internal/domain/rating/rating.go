// Package rating maintains Gaussian skill beliefs: it seeds a (mu, sigma)
// pair per rank tier at registration and applies a simplified two-team
// TrueSkill update after each completed match.
package rating

import (
	"math"

	"github.com/pugmate/pugmate/internal/domain/model"
)

// Default rating configuration constants.
const (
	baseMu              = 18.0 // bronze seed mean
	muStepPerTier       = 3.0  // seed mean increase per tier
	defaultInitialSigma = 5.5  // shared initial uncertainty
	defaultSigmaFloor   = 1.2  // sigma never drops below this
	defaultSigmaDecay   = 0.95 // multiplicative shrink per match
	defaultBeta         = 4.0  // per-match performance deviation
	drawFactor          = 0.5  // draws move mu at half strength
	srScale             = 100  // displayable rating scale
)

// Skill is a player's latent-skill belief, modeled as N(mu, sigma^2).
type Skill struct {
	Mu    float64
	Sigma float64
}

// SR returns the conservative displayable rating,
// max(0, round((mu - 3*sigma) * 100)). Leaderboard material only;
// matchmaking never consumes it.
func (s Skill) SR() int {
	sr := math.Round((s.Mu - 3*s.Sigma) * srScale)
	if sr < 0 {
		return 0
	}
	return int(sr)
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithInitialSigma sets the seed uncertainty shared by all tiers.
func WithInitialSigma(sigma float64) Option {
	return func(e *Engine) {
		if sigma > 0 {
			e.initialSigma = sigma
		}
	}
}

// WithSigmaFloor sets the lower bound sigma can never cross.
func WithSigmaFloor(floor float64) Option {
	return func(e *Engine) {
		if floor > 0 {
			e.sigmaFloor = floor
		}
	}
}

// WithSigmaDecay sets the multiplicative post-match sigma shrink, in (0, 1].
func WithSigmaDecay(decay float64) Option {
	return func(e *Engine) {
		if decay > 0 && decay <= 1 {
			e.sigmaDecay = decay
		}
	}
}

// WithBeta sets the per-match performance deviation added to each side's
// aggregate variance.
func WithBeta(beta float64) Option {
	return func(e *Engine) {
		if beta > 0 {
			e.beta = beta
		}
	}
}

// Engine seeds and updates skill beliefs. It holds no per-player state;
// every call is a pure function of its inputs.
type Engine struct {
	initialSigma float64
	sigmaFloor   float64
	sigmaDecay   float64
	beta         float64
}

// New creates an Engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		initialSigma: defaultInitialSigma,
		sigmaFloor:   defaultSigmaFloor,
		sigmaDecay:   defaultSigmaDecay,
		beta:         defaultBeta,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Seed returns the fixed initial belief for a rank tier. Mu increases
// monotonically with the tier; sigma is the same for every tier. An
// unknown rank seeds like bronze.
func (e *Engine) Seed(rank model.Rank) Skill {
	ord := rank.Ordinal()
	if ord < 1 {
		ord = 1
	}
	return Skill{
		Mu:    baseMu + muStepPerTier*float64(ord-1),
		Sigma: e.initialSigma,
	}
}

// AtFloor reports whether a belief's sigma has converged onto the floor.
func (e *Engine) AtFloor(s Skill) bool {
	return s.Sigma <= e.sigmaFloor
}

// UpdatePostMatch returns new beliefs for both sides of a completed
// match. For a decisive result winners' mu rises and losers' mu falls;
// for a draw both sides are pulled toward the pre-match midpoint at
// reduced strength. Every participant's sigma shrinks toward the floor.
//
// The update is the standard paired Bayesian form: the standardized
// team-mu difference passes through the truncated-Gaussian correction
// v(t) = pdf(t)/cdf(t), and each player's share of the team shift is
// proportional to their own sigma^2 (uncertain players move more).
func (e *Engine) UpdatePostMatch(winners, losers []Skill, draw bool) ([]Skill, []Skill) {
	c := e.totalDeviation(winners, losers)
	t := (teamMu(winners) - teamMu(losers)) / c

	var winShift, loseShift float64 // applied per unit sigma^2/c
	if draw {
		// Pull the leading side down and the trailing side up, at half
		// the decisive magnitude. Equal sides cancel exactly.
		m := drawFactor * gaussPDF(t) / gaussCDF(math.Abs(t))
		switch {
		case t > 0:
			winShift, loseShift = -m, m
		case t < 0:
			winShift, loseShift = m, -m
		}
	} else {
		v := meanCorrection(t)
		winShift, loseShift = v, -v
	}

	wOut := e.applyShift(winners, winShift, c)
	lOut := e.applyShift(losers, loseShift, c)
	return wOut, lOut
}

// applyShift moves each player's mu by shift scaled to their own
// variance and shrinks sigma toward the floor.
func (e *Engine) applyShift(side []Skill, shift, c float64) []Skill {
	out := make([]Skill, len(side))
	for i, s := range side {
		out[i] = Skill{
			Mu:    s.Mu + (s.Sigma*s.Sigma/c)*shift,
			Sigma: math.Max(e.sigmaFloor, s.Sigma*e.sigmaDecay),
		}
	}
	return out
}

// totalDeviation is the combined standard deviation of a match outcome:
// both sides' aggregate variance plus performance noise from each team.
func (e *Engine) totalDeviation(winners, losers []Skill) float64 {
	v := 2 * e.beta * e.beta
	for _, s := range winners {
		v += s.Sigma * s.Sigma
	}
	for _, s := range losers {
		v += s.Sigma * s.Sigma
	}
	return math.Sqrt(v)
}

func teamMu(side []Skill) float64 {
	sum := 0.0
	for _, s := range side {
		sum += s.Mu
	}
	return sum
}

// meanCorrection is v(t) = pdf(t)/cdf(t), the mean of a standard
// Gaussian truncated below at -t. Falls back to the asymptote -t when
// cdf(t) underflows for extreme mismatches.
func meanCorrection(t float64) float64 {
	denom := gaussCDF(t)
	if denom < 1e-12 {
		return -t
	}
	return gaussPDF(t) / denom
}

func gaussPDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

func gaussCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}
