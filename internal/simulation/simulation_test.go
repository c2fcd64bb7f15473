package simulation_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pugmate/pugmate/internal/adapters/roster"
	"github.com/pugmate/pugmate/internal/app"
	"github.com/pugmate/pugmate/internal/domain/model"
	"github.com/pugmate/pugmate/internal/domain/rating"
	"github.com/pugmate/pugmate/internal/simulation"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerator(t *testing.T) {
	Convey("Given a roster generator", t, func() {
		ctx := context.Background()

		Convey("Every generated player registers cleanly", func() {
			store := roster.NewMemoryStore()
			gen := simulation.NewGenerator()

			for _, p := range gen.Roster("g1", 50) {
				So(store.Upsert(ctx, p), ShouldBeNil)
				So(p.Rank.IsValid(), ShouldBeTrue)
				So(len(p.Roles), ShouldBeGreaterThan, 0)
				So(p.Mu, ShouldBeGreaterThan, 0)
				So(p.Sigma, ShouldBeGreaterThan, 0)
				So(p.LastPlayedAt, ShouldBeNil)
			}
			So(store.Count(ctx, "g1"), ShouldEqual, 50)
		})

		Convey("The same seed reproduces ranks, tags and roles", func() {
			a := simulation.NewGenerator(simulation.WithSeed(7)).Roster("g1", 20)
			b := simulation.NewGenerator(simulation.WithSeed(7)).Roster("g1", 20)

			for i := range a {
				So(a[i].Rank, ShouldEqual, b[i].Rank)
				So(a[i].BattleTag, ShouldEqual, b[i].BattleTag)
				So(a[i].Roles, ShouldResemble, b[i].Roles)
			}
		})

		Convey("A custom seeder shapes the initial skill", func() {
			gen := simulation.NewGenerator(simulation.WithSeeder(func(model.Rank) rating.Skill {
				return rating.Skill{Mu: 30, Sigma: 2}
			}))
			for _, p := range gen.Roster("g1", 5) {
				So(p.Mu, ShouldEqual, 30)
				So(p.Sigma, ShouldEqual, 2)
			}
		})
	})
}

func TestRunnerTick(t *testing.T) {
	Convey("Given a runner over a flexible ten-player guild", t, func() {
		ctx := context.Background()
		store := roster.NewMemoryStore()
		for i := 0; i < 10; i++ {
			p := roster.Player{
				PlayerID:  fmt.Sprintf("p%02d", i),
				GuildID:   "g1",
				BattleTag: fmt.Sprintf("p%02d#0001", i),
				Rank:      model.RankGold,
				Roles:     model.NewRoleSet(model.RoleTank, model.RoleDPS, model.RoleSupport),
				Mu:        24,
				Sigma:     5.5,
			}
			So(store.Upsert(ctx, p), ShouldBeNil)
		}

		svc := app.New(
			app.WithPlayerLookup(store),
			app.WithWeightsLookup(store),
			app.WithResultRecorder(store),
		)
		runner := simulation.NewRunner(svc, store, []string{"g1"},
			simulation.WithRunnerSeed(1),
		)

		Convey("When one tick runs", func() {
			So(runner.Tick(ctx, "g1"), ShouldBeNil)

			Convey("Then every player carries exactly one result", func() {
				for _, id := range store.PlayerIDs(ctx, "g1") {
					p, err := store.Get(ctx, "g1", id)
					So(err, ShouldBeNil)
					So(p.Wins+p.Losses+p.Draws, ShouldEqual, 1)
					So(p.LastPlayedAt, ShouldNotBeNil)
				}
			})
		})

		Convey("When ticks repeat, results keep accumulating", func() {
			for i := 0; i < 5; i++ {
				So(runner.Tick(ctx, "g1"), ShouldBeNil)
			}
			total := 0
			for _, id := range store.PlayerIDs(ctx, "g1") {
				p, _ := store.Get(ctx, "g1", id)
				total += p.Wins + p.Losses + p.Draws
			}
			So(total, ShouldEqual, 50)
		})
	})
}

func TestRunnerSkipsThinGuilds(t *testing.T) {
	Convey("Given a guild too small to fill a match", t, func() {
		ctx := context.Background()
		store := roster.NewMemoryStore()
		for i := 0; i < 4; i++ {
			p := roster.Player{
				PlayerID:  fmt.Sprintf("p%02d", i),
				GuildID:   "g1",
				BattleTag: fmt.Sprintf("p%02d#0001", i),
				Rank:      model.RankGold,
				Roles:     model.NewRoleSet(model.RoleDPS),
				Mu:        24,
				Sigma:     5.5,
			}
			So(store.Upsert(ctx, p), ShouldBeNil)
		}

		svc := app.New(
			app.WithPlayerLookup(store),
			app.WithWeightsLookup(store),
			app.WithResultRecorder(store),
		)
		runner := simulation.NewRunner(svc, store, []string{"g1"})

		Convey("A tick is a clean no-op, not an error", func() {
			So(runner.Tick(ctx, "g1"), ShouldBeNil)
			for _, id := range store.PlayerIDs(ctx, "g1") {
				p, _ := store.Get(ctx, "g1", id)
				So(p.Wins+p.Losses+p.Draws, ShouldEqual, 0)
			}
		})
	})
}

func TestRunnerBootstrapAndRun(t *testing.T) {
	Convey("Given a runner over two generated guilds", t, func() {
		ctx := context.Background()
		store := roster.NewMemoryStore()
		svc := app.New(
			app.WithPlayerLookup(store),
			app.WithWeightsLookup(store),
			app.WithResultRecorder(store),
		)
		runner := simulation.NewRunner(svc, store, []string{"g1", "g2"},
			simulation.WithTickInterval(5*time.Millisecond),
			simulation.WithRunnerSeed(1),
		)

		Convey("Bootstrap fills every guild's roster", func() {
			gen := simulation.NewGenerator(simulation.WithSeed(7))
			So(runner.Bootstrap(ctx, gen, 16), ShouldBeNil)
			So(store.Count(ctx, "g1"), ShouldEqual, 16)
			So(store.Count(ctx, "g2"), ShouldEqual, 16)
		})

		Convey("Run stops when the context is cancelled", func() {
			gen := simulation.NewGenerator(simulation.WithSeed(7))
			So(runner.Bootstrap(ctx, gen, 16), ShouldBeNil)

			runCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
			defer cancel()

			done := make(chan struct{})
			go func() {
				runner.Run(runCtx)
				close(done)
			}()

			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("runner did not stop on context cancellation")
			}
		})
	})
}
