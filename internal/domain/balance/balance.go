// Package balance splits ten selected players into two rank-balanced
// five-player teams.
package balance

import (
	"fmt"
	"sort"

	"github.com/pugmate/pugmate/internal/domain/model"
)

// Balancer assigns selected players to teams, greedily minimizing the
// gap between team rank sums. The result is deterministic: role groups
// are processed in a fixed order, players within a group descend by
// rank, and ties go to team one.
type Balancer struct{}

// New creates a Balancer.
func New() *Balancer {
	return &Balancer{}
}

// Split partitions exactly ten entries satisfying the pool quota into
// two teams of five, each with one tank, two dps and two supports.
//
// A malformed input (wrong count or quota) is a programming error in the
// caller, not a recoverable condition, so Split panics on it.
func (b *Balancer) Split(entries []model.SelectionEntry) model.Assignment {
	if err := checkShape(entries); err != nil {
		panic(fmt.Sprintf("balance: %v", err))
	}

	groups := make(map[model.Role][]model.SelectionEntry, 3)
	for _, e := range entries {
		groups[e.AssignedRole] = append(groups[e.AssignedRole], e)
	}

	var a model.Assignment
	sumOne, sumTwo := 0, 0
	for _, role := range model.BalanceOrder() {
		group := groups[role]
		// Strongest first so the greedy pass places high ranks against
		// each other instead of stacking one side.
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Candidate.Rank.Ordinal() > group[j].Candidate.Rank.Ordinal()
		})
		perTeam := model.TeamQuota()[role]
		placedOne, placedTwo := 0, 0
		for _, e := range group {
			toOne := sumOne <= sumTwo
			if placedOne == perTeam {
				toOne = false
			}
			if placedTwo == perTeam {
				toOne = true
			}
			if toOne {
				a.TeamOne = append(a.TeamOne, e)
				sumOne += e.Candidate.Rank.Ordinal()
				placedOne++
			} else {
				a.TeamTwo = append(a.TeamTwo, e)
				sumTwo += e.Candidate.Rank.Ordinal()
				placedTwo++
			}
		}
	}
	return a
}

// Gap returns the absolute difference between the two teams' rank sums.
func Gap(a model.Assignment) int {
	diff := model.RankSum(a.TeamOne) - model.RankSum(a.TeamTwo)
	if diff < 0 {
		return -diff
	}
	return diff
}

// checkShape validates the ten-entry pool-quota contract.
func checkShape(entries []model.SelectionEntry) error {
	if len(entries) != model.PoolSize {
		return fmt.Errorf("want %d entries, got %d", model.PoolSize, len(entries))
	}
	counts := make(map[model.Role]int, 3)
	for _, e := range entries {
		counts[e.AssignedRole]++
	}
	for role, want := range model.PoolQuota() {
		if counts[role] != want {
			return fmt.Errorf("role %s: want %d entries, got %d", role, want, counts[role])
		}
	}
	return nil
}
