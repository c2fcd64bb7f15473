package model

import "time"

// Candidate is a registered player as seen by one matchmaking invocation.
// It is built fresh from the player store each time and never persisted
// by the core; Mu and Sigma are owned by the store.
type Candidate struct {
	PlayerID     string
	BattleTag    string
	Rank         Rank
	Roles        RoleSet
	Mu           float64
	Sigma        float64
	LastPlayedAt *time.Time // nil means never played
}

// SelectionEntry is a candidate that made the cut, locked to a single role.
type SelectionEntry struct {
	Candidate    Candidate
	AssignedRole Role
	// Priority is the recency score used to pick the candidate.
	// math.Inf(1) marks a player who has never played.
	Priority float64
}

// Assignment is an ordered pair of five-player teams covering the ten
// selected candidates with no overlap.
type Assignment struct {
	TeamOne []SelectionEntry
	TeamTwo []SelectionEntry
}

// RankSum returns the total rank ordinal value of a team.
func RankSum(team []SelectionEntry) int {
	sum := 0
	for _, e := range team {
		sum += e.Candidate.Rank.Ordinal()
	}
	return sum
}
