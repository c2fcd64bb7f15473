// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load() layers an optional YAML file and environment variables on top.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the metrics HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// FairnessWeight and PriorityWeight are the guild defaults for the
	// selection score blend. They must each sit in [0,1] and sum to 1.
	FairnessWeight float64 `koanf:"fairness_weight"`
	PriorityWeight float64 `koanf:"priority_weight"`

	// Rating engine tuning.
	InitialSigma float64 `koanf:"initial_sigma"`
	SigmaFloor   float64 `koanf:"sigma_floor"`
	SigmaDecay   float64 `koanf:"sigma_decay"`
	Beta         float64 `koanf:"beta"`

	// Simulation knobs for the scrim-night runner.
	GuildCount     int     `koanf:"guild_count"`
	RosterSize     int     `koanf:"roster_size"`
	TickIntervalMS int     `koanf:"tick_interval_ms"`
	DrawRate       float64 `koanf:"draw_rate"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9090",
		FairnessWeight: 0.2,
		PriorityWeight: 0.8,
		InitialSigma:   5.5,
		SigmaFloor:     1.2,
		SigmaDecay:     0.95,
		Beta:           4.0,
		GuildCount:     2,
		RosterSize:     16,
		TickIntervalMS: 1000,
		DrawRate:       0.1,
	}
}
