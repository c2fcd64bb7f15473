package selection_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/pugmate/pugmate/internal/domain/model"
	"github.com/pugmate/pugmate/internal/domain/selection"
	. "github.com/smartystreets/goconvey/convey"
)

var testNow = time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func daysAgo(days float64) *time.Time {
	t := testNow.Add(-time.Duration(days * 24 * float64(time.Hour)))
	return &t
}

func candidate(id string, rank model.Rank, last *time.Time, roles ...model.Role) model.Candidate {
	return model.Candidate{
		PlayerID:     id,
		BattleTag:    id + "#0001",
		Rank:         rank,
		Roles:        model.NewRoleSet(roles...),
		Mu:           24,
		Sigma:        5.5,
		LastPlayedAt: last,
	}
}

func flexPool(n int) []model.Candidate {
	pool := make([]model.Candidate, n)
	for i := range pool {
		pool[i] = candidate(fmt.Sprintf("p%02d", i), model.RankGold, nil,
			model.RoleTank, model.RoleDPS, model.RoleSupport)
	}
	return pool
}

func TestSelectorPriority(t *testing.T) {
	Convey("Given a selector with a fixed clock", t, func() {
		s := selection.New(selection.WithClock(fixedClock))

		Convey("A candidate who never played scores +Inf", func() {
			p := s.Priority(candidate("a", model.RankGold, nil, model.RoleDPS))
			So(math.IsInf(p, 1), ShouldBeTrue)
		})

		Convey("Priority grows with elapsed time", func() {
			recent := s.Priority(candidate("a", model.RankGold, daysAgo(1), model.RoleDPS))
			stale := s.Priority(candidate("b", model.RankGold, daysAgo(6), model.RoleDPS))
			So(recent, ShouldAlmostEqual, 1.0, 1e-9)
			So(stale, ShouldAlmostEqual, 6.0, 1e-9)
			So(stale, ShouldBeGreaterThan, recent)
		})
	})
}

func TestSelectorSelect(t *testing.T) {
	Convey("Given a selector with a fixed clock", t, func() {
		s := selection.New(selection.WithClock(fixedClock))
		ctx := context.Background()

		Convey("When the pool has fewer than ten candidates", func() {
			_, err := s.Select(ctx, flexPool(9))

			Convey("Then it fails with the players deficit", func() {
				So(errors.Is(err, selection.ErrInsufficientPlayers), ShouldBeTrue)
				var ipe *selection.InsufficientPlayersError
				So(errors.As(err, &ipe), ShouldBeTrue)
				So(ipe.Required, ShouldEqual, 10)
				So(ipe.Found, ShouldEqual, 9)
			})
		})

		Convey("When ten candidates can only play dps", func() {
			pool := make([]model.Candidate, 10)
			for i := range pool {
				pool[i] = candidate(fmt.Sprintf("d%02d", i), model.RankGold, nil, model.RoleDPS)
			}
			_, err := s.Select(ctx, pool)

			Convey("Then both tank and support quotas are reported unmet", func() {
				So(errors.Is(err, selection.ErrInsufficientRoleComposition), ShouldBeTrue)
				var ce *selection.CompositionError
				So(errors.As(err, &ce), ShouldBeTrue)
				So(len(ce.Deficits), ShouldEqual, 2)
				So(ce.Deficits[0].Role, ShouldEqual, model.RoleTank)
				So(ce.Deficits[0].Required, ShouldEqual, 2)
				So(ce.Deficits[0].Available, ShouldEqual, 0)
				So(ce.Deficits[1].Role, ShouldEqual, model.RoleSupport)
				So(ce.Deficits[1].Required, ShouldEqual, 4)
				So(ce.Deficits[1].Available, ShouldEqual, 0)
			})
		})

		Convey("When the pool exactly covers the quotas", func() {
			result, err := s.Select(ctx, flexPool(10))

			Convey("Then all ten are selected once each within their roles", func() {
				So(err, ShouldBeNil)
				So(len(result.Entries), ShouldEqual, 10)

				seen := make(map[string]bool)
				counts := make(map[model.Role]int)
				for _, e := range result.Entries {
					So(seen[e.Candidate.PlayerID], ShouldBeFalse)
					seen[e.Candidate.PlayerID] = true
					So(e.Candidate.Roles.Has(e.AssignedRole), ShouldBeTrue)
					counts[e.AssignedRole]++
				}
				So(counts[model.RoleTank], ShouldEqual, 2)
				So(counts[model.RoleDPS], ShouldEqual, 4)
				So(counts[model.RoleSupport], ShouldEqual, 4)
			})
		})

		Convey("When one-trick rosters compete for dps slots", func() {
			// Two tank-only, four support-only and seven dps-only
			// candidates: the tanks and supports are forced picks, and
			// priority decides which four dps play.
			pool := []model.Candidate{
				candidate("t1", model.RankGold, daysAgo(1), model.RoleTank),
				candidate("t2", model.RankGold, daysAgo(1), model.RoleTank),
				candidate("s1", model.RankGold, daysAgo(2), model.RoleSupport),
				candidate("s2", model.RankGold, daysAgo(2), model.RoleSupport),
				candidate("s3", model.RankGold, daysAgo(2), model.RoleSupport),
				candidate("s4", model.RankGold, daysAgo(2), model.RoleSupport),
				candidate("d1", model.RankGold, nil, model.RoleDPS),
				candidate("d2", model.RankGold, daysAgo(9), model.RoleDPS),
				candidate("d3", model.RankGold, daysAgo(5), model.RoleDPS),
				candidate("d4", model.RankGold, daysAgo(3), model.RoleDPS),
				candidate("d5", model.RankGold, daysAgo(0.5), model.RoleDPS),
				candidate("d6", model.RankGold, daysAgo(0.2), model.RoleDPS),
				candidate("d7", model.RankGold, daysAgo(7), model.RoleDPS),
			}
			result, err := s.Select(ctx, pool)
			So(err, ShouldBeNil)

			picked := make(map[string]model.Role, 10)
			for _, e := range result.Entries {
				picked[e.Candidate.PlayerID] = e.AssignedRole
			}

			Convey("Then the forced tanks and supports all play", func() {
				for _, id := range []string{"t1", "t2", "s1", "s2", "s3", "s4"} {
					So(picked, ShouldContainKey, id)
				}
			})

			Convey("And the four most overdue dps get the slots", func() {
				for _, id := range []string{"d1", "d2", "d7", "d3"} {
					So(picked[id], ShouldEqual, model.RoleDPS)
				}
				So(picked, ShouldNotContainKey, "d4")
				So(picked, ShouldNotContainKey, "d5")
				So(picked, ShouldNotContainKey, "d6")
			})
		})

		Convey("When never-played candidates compete with active ones", func() {
			pool := flexPool(11)
			pool[4].LastPlayedAt = daysAgo(30) // long idle, but has played

			result, err := s.Select(ctx, pool)
			So(err, ShouldBeNil)

			Convey("Then the played candidate is the one left out", func() {
				for _, e := range result.Entries {
					So(e.Candidate.PlayerID, ShouldNotEqual, "p04")
					So(math.IsInf(e.Priority, 1), ShouldBeTrue)
				}
			})
		})

		Convey("When everything ties, input order decides", func() {
			first, err := s.Select(ctx, flexPool(12))
			So(err, ShouldBeNil)
			second, err := s.Select(ctx, flexPool(12))
			So(err, ShouldBeNil)

			Convey("Then selection is reproducible and drops the last two", func() {
				So(first.Entries, ShouldResemble, second.Entries)
				for _, e := range first.Entries {
					So(e.Candidate.PlayerID, ShouldNotEqual, "p10")
					So(e.Candidate.PlayerID, ShouldNotEqual, "p11")
				}
			})
		})

		Convey("When a custom score hook reverses the ordering", func() {
			pool := make([]model.Candidate, 12)
			for i := range pool {
				pool[i] = candidate(fmt.Sprintf("p%02d", i), model.RankGold, daysAgo(float64(i+1)),
					model.RoleTank, model.RoleDPS, model.RoleSupport)
			}
			inverted := selection.New(
				selection.WithClock(fixedClock),
				selection.WithScoreFunc(func(_ model.Candidate, priority float64) float64 {
					return -priority
				}),
			)
			result, err := inverted.Select(ctx, pool)
			So(err, ShouldBeNil)

			Convey("Then the most recently played candidates are picked", func() {
				picked := make(map[string]bool)
				for _, e := range result.Entries {
					picked[e.Candidate.PlayerID] = true
				}
				So(picked["p10"], ShouldBeFalse)
				So(picked["p11"], ShouldBeFalse)
			})
		})
	})
}
