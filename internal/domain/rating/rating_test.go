package rating_test

import (
	"testing"

	"github.com/pugmate/pugmate/internal/domain/model"
	"github.com/pugmate/pugmate/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func side(skills ...rating.Skill) []rating.Skill { return skills }

func TestSeed(t *testing.T) {
	Convey("Given a rating engine", t, func() {
		e := rating.New()

		Convey("Seeding is a pure function of the rank", func() {
			for _, rank := range model.Ranks() {
				So(e.Seed(rank), ShouldResemble, e.Seed(rank))
			}
		})

		Convey("Seed mu rises strictly with the tier, sigma stays fixed", func() {
			ranks := model.Ranks()
			for i := 1; i < len(ranks); i++ {
				lower := e.Seed(ranks[i-1])
				higher := e.Seed(ranks[i])
				So(higher.Mu, ShouldBeGreaterThan, lower.Mu)
				So(higher.Sigma, ShouldEqual, lower.Sigma)
			}
		})

		Convey("An unknown rank seeds like bronze", func() {
			So(e.Seed(model.Rank("wood")), ShouldResemble, e.Seed(model.RankBronze))
		})

		Convey("A custom initial sigma is honored", func() {
			custom := rating.New(rating.WithInitialSigma(3.0))
			So(custom.Seed(model.RankGold).Sigma, ShouldEqual, 3.0)
		})
	})
}

func TestSR(t *testing.T) {
	Convey("Given skill beliefs", t, func() {
		Convey("SR is the conservative estimate scaled by 100", func() {
			So(rating.Skill{Mu: 24, Sigma: 5.5}.SR(), ShouldEqual, 750)
			So(rating.Skill{Mu: 30, Sigma: 1.2}.SR(), ShouldEqual, 2640)
		})

		Convey("SR never goes negative", func() {
			So(rating.Skill{Mu: 10, Sigma: 5.5}.SR(), ShouldEqual, 0)
		})
	})
}

func TestUpdatePostMatchDecisive(t *testing.T) {
	Convey("Given a decisive match between mixed teams", t, func() {
		e := rating.New()
		winners := side(
			rating.Skill{Mu: 21, Sigma: 5.5},
			rating.Skill{Mu: 24, Sigma: 4.0},
			rating.Skill{Mu: 27, Sigma: 2.5},
			rating.Skill{Mu: 30, Sigma: 1.5},
			rating.Skill{Mu: 24, Sigma: 5.5},
		)
		losers := side(
			rating.Skill{Mu: 27, Sigma: 3.0},
			rating.Skill{Mu: 24, Sigma: 5.5},
			rating.Skill{Mu: 21, Sigma: 2.0},
			rating.Skill{Mu: 33, Sigma: 1.4},
			rating.Skill{Mu: 18, Sigma: 5.5},
		)

		wOut, lOut := e.UpdatePostMatch(winners, losers, false)

		Convey("Winners never lose mu, losers never gain it", func() {
			for i := range winners {
				So(wOut[i].Mu, ShouldBeGreaterThanOrEqualTo, winners[i].Mu)
			}
			for i := range losers {
				So(lOut[i].Mu, ShouldBeLessThanOrEqualTo, losers[i].Mu)
			}
		})

		Convey("Sigma shrinks but never crosses the floor", func() {
			for i := range winners {
				So(wOut[i].Sigma, ShouldBeLessThanOrEqualTo, winners[i].Sigma)
				So(wOut[i].Sigma, ShouldBeGreaterThanOrEqualTo, 1.2)
			}
			for i := range losers {
				So(lOut[i].Sigma, ShouldBeLessThanOrEqualTo, losers[i].Sigma)
				So(lOut[i].Sigma, ShouldBeGreaterThanOrEqualTo, 1.2)
			}
		})

		Convey("Less certain players move further", func() {
			// winners[0] has sigma 5.5, winners[3] has 1.5.
			uncertainShift := wOut[0].Mu - winners[0].Mu
			certainShift := wOut[3].Mu - winners[3].Mu
			So(uncertainShift, ShouldBeGreaterThan, certainShift)
		})

		Convey("The input slices are never mutated", func() {
			So(winners[0].Mu, ShouldEqual, 21.0)
			So(losers[0].Mu, ShouldEqual, 27.0)
		})
	})
}

func TestUpdatePostMatchSigmaFloor(t *testing.T) {
	Convey("Given a long run of matches", t, func() {
		e := rating.New(rating.WithSigmaFloor(1.2), rating.WithSigmaDecay(0.9))
		winners := side(rating.Skill{Mu: 24, Sigma: 5.5})
		losers := side(rating.Skill{Mu: 24, Sigma: 5.5})

		Convey("Sigma converges onto the floor and stays there", func() {
			for i := 0; i < 100; i++ {
				winners, losers = e.UpdatePostMatch(winners, losers, false)
			}
			So(winners[0].Sigma, ShouldEqual, 1.2)
			So(losers[0].Sigma, ShouldEqual, 1.2)
		})
	})
}

func TestUpdatePostMatchDraw(t *testing.T) {
	Convey("Given a rating engine", t, func() {
		e := rating.New()

		Convey("When two identical sides draw", func() {
			a := side(rating.Skill{Mu: 24, Sigma: 4}, rating.Skill{Mu: 27, Sigma: 3})
			b := side(rating.Skill{Mu: 24, Sigma: 4}, rating.Skill{Mu: 27, Sigma: 3})
			aOut, bOut := e.UpdatePostMatch(a, b, true)

			Convey("Then nobody's mu moves", func() {
				for i := range a {
					So(aOut[i].Mu, ShouldEqual, a[i].Mu)
					So(bOut[i].Mu, ShouldEqual, b[i].Mu)
				}
			})

			Convey("And sigma still shrinks", func() {
				for i := range a {
					So(aOut[i].Sigma, ShouldBeLessThan, a[i].Sigma)
				}
			})
		})

		Convey("When a stronger side draws a weaker one", func() {
			strong := side(rating.Skill{Mu: 33, Sigma: 4}, rating.Skill{Mu: 30, Sigma: 4})
			weak := side(rating.Skill{Mu: 21, Sigma: 4}, rating.Skill{Mu: 18, Sigma: 4})
			sOut, wOut := e.UpdatePostMatch(strong, weak, true)

			Convey("Then both sides pull toward the midpoint", func() {
				for i := range strong {
					So(sOut[i].Mu, ShouldBeLessThan, strong[i].Mu)
				}
				for i := range weak {
					So(wOut[i].Mu, ShouldBeGreaterThan, weak[i].Mu)
				}
			})

			Convey("And the pull is weaker than a decisive result", func() {
				_, wDecisive := e.UpdatePostMatch(strong, weak, false)
				drawShift := wOut[0].Mu - weak[0].Mu
				decisiveShift := weak[0].Mu - wDecisive[0].Mu
				So(drawShift, ShouldBeGreaterThan, 0)
				So(decisiveShift, ShouldBeLessThan, 0)
				So(drawShift, ShouldBeLessThan, -decisiveShift)
			})
		})

		Convey("Swapping the sides of a draw mirrors the result", func() {
			a := side(rating.Skill{Mu: 30, Sigma: 4})
			b := side(rating.Skill{Mu: 24, Sigma: 4})

			aOut1, bOut1 := e.UpdatePostMatch(a, b, true)
			bOut2, aOut2 := e.UpdatePostMatch(b, a, true)

			So(aOut1[0].Mu, ShouldAlmostEqual, aOut2[0].Mu, 1e-9)
			So(bOut1[0].Mu, ShouldAlmostEqual, bOut2[0].Mu, 1e-9)
		})
	})
}
