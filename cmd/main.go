package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pugmate/pugmate/internal/adapters/leaderboard"
	"github.com/pugmate/pugmate/internal/adapters/roster"
	"github.com/pugmate/pugmate/internal/app"
	"github.com/pugmate/pugmate/internal/config"
	"github.com/pugmate/pugmate/internal/domain/rating"
	"github.com/pugmate/pugmate/internal/simulation"
	"github.com/pugmate/pugmate/pkg/logger"
	"github.com/pugmate/pugmate/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
	topNReport        = 10
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store := roster.NewMemoryStore(roster.WithDefaultWeights(cfg.DefaultWeights()))
	board := leaderboard.NewMemoryBoard()
	engine := rating.New(
		rating.WithInitialSigma(cfg.InitialSigma),
		rating.WithSigmaFloor(cfg.SigmaFloor),
		rating.WithSigmaDecay(cfg.SigmaDecay),
		rating.WithBeta(cfg.Beta),
	)

	svc := app.New(
		app.WithPlayerLookup(store),
		app.WithWeightsLookup(store),
		app.WithResultRecorder(store),
		app.WithLeaderboard(board),
		app.WithRatingEngine(engine),
		app.WithLogger(log.Named("matchmaking")),
	)

	guilds := make([]string, cfg.GuildCount)
	for i := range guilds {
		guilds[i] = simulationGuildID(i)
	}

	gen := simulation.NewGenerator(simulation.WithSeeder(engine.Seed))
	runner := simulation.NewRunner(svc, store, guilds,
		simulation.WithTickInterval(time.Duration(cfg.TickIntervalMS)*time.Millisecond),
		simulation.WithDrawRate(cfg.DrawRate),
		simulation.WithRunnerLogger(log.Named("simulation")),
	)
	if err := runner.Bootstrap(ctx, gen, cfg.RosterSize); err != nil {
		log.Error(ctx, "bootstrap failed", logger.Error(err))
		return
	}

	// Serve Prometheus metrics.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		log.Info(ctx, "metrics server listening", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("metrics server failed: " + err.Error() + "\n")
		}
	}()

	log.Info(ctx, "simulation running",
		logger.Int("guilds", cfg.GuildCount),
		logger.Int("rosterSize", cfg.RosterSize),
	)
	runner.Run(ctx)

	// Report final standings before exit.
	if top, err := board.TopN(context.Background(), topNReport); err == nil {
		for _, e := range top {
			log.Info(context.Background(), "final standing",
				logger.Int("position", e.Position),
				logger.String("battleTag", e.BattleTag),
				logger.Int("sr", e.SR),
			)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "metrics server shutdown failed", logger.Error(err))
	}
	log.Info(context.Background(), "simulation stopped")
}

func simulationGuildID(i int) string {
	return fmt.Sprintf("guild-%02d", i+1)
}
