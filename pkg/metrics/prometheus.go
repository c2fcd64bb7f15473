// Package metrics provides Prometheus metrics for the matchmaking service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus metric the service emits.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Match lifecycle
	matchesCreated   prometheus.Counter
	matchesCompleted *prometheus.CounterVec
	duplicateResults prometheus.Counter

	// Selection quality
	selectionFailures *prometheus.CounterVec
	teamRankGap       prometheus.Histogram

	// Rating engine
	ratingUpdates prometheus.Counter
	sigmaAtFloor  prometheus.Counter

	// Roster scale
	registeredPlayers *prometheus.GaugeVec
	leaderboardSize   prometheus.Gauge

	// Simulation
	simulationTickDuration prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pugmate",
		subsystem:        "matchmaking",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.matchesCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_created_total",
		Help:      "Total number of team assignments produced",
	})

	m.matchesCompleted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "matches_completed_total",
			Help:      "Total number of completed matches by outcome",
		},
		[]string{"outcome"},
	)

	m.duplicateResults = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_results_total",
		Help:      "Match completions rejected by the idempotency guard",
	})

	m.selectionFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "selection_failures_total",
			Help:      "Matchmaking attempts that failed, by reason",
		},
		[]string{"reason"},
	)

	m.teamRankGap = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "team_rank_gap",
		Help:      "Absolute rank-sum difference between the two teams",
		Buckets:   []float64{0, 1, 2, 3, 4, 5, 7, 10},
	})

	m.ratingUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rating_updates_total",
		Help:      "Individual player rating updates applied",
	})

	m.sigmaAtFloor = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sigma_at_floor_total",
		Help:      "Rating updates where a player's sigma hit the configured floor",
	})

	m.registeredPlayers = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "registered_players",
			Help:      "Registered players per guild",
		},
		[]string{"guild_id"},
	)

	m.leaderboardSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_size",
		Help:      "Players tracked on the SR leaderboard",
	})

	m.simulationTickDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "simulation_tick_duration_milliseconds",
		Help:      "Duration of one simulated match cycle in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// RecordMatchCreated increments the created matches counter.
func RecordMatchCreated() {
	globalManager.matchesCreated.Inc()
}

// RecordMatchCompleted increments the completed matches counter.
// Outcome is "decisive" or "draw".
func RecordMatchCompleted(outcome string) {
	globalManager.matchesCompleted.WithLabelValues(outcome).Inc()
}

// RecordDuplicateResult increments the idempotency rejection counter.
func RecordDuplicateResult() {
	globalManager.duplicateResults.Inc()
}

// RecordSelectionFailure increments the failure counter for a reason,
// e.g. "insufficient_players", "role_composition", "invalid_weights".
func RecordSelectionFailure(reason string) {
	globalManager.selectionFailures.WithLabelValues(reason).Inc()
}

// RecordTeamRankGap observes the rank-sum gap of a produced assignment.
func RecordTeamRankGap(gap int) {
	globalManager.teamRankGap.Observe(float64(gap))
}

// RecordRatingUpdates adds n applied player rating updates.
func RecordRatingUpdates(n int) {
	globalManager.ratingUpdates.Add(float64(n))
}

// RecordSigmaAtFloor increments the sigma-floor counter.
func RecordSigmaAtFloor() {
	globalManager.sigmaAtFloor.Inc()
}

// UpdateRegisteredPlayers sets the registered player count for a guild.
func UpdateRegisteredPlayers(guildID string, count int) {
	globalManager.registeredPlayers.WithLabelValues(guildID).Set(float64(count))
}

// UpdateLeaderboardSize sets the SR leaderboard size.
func UpdateLeaderboardSize(count int) {
	globalManager.leaderboardSize.Set(float64(count))
}

// RecordSimulationTick observes one simulated match cycle duration.
func RecordSimulationTick(latencyMs float64) {
	globalManager.simulationTickDuration.Observe(latencyMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
