package model

// Rank is a player's competitive tier.
type Rank string

// Competitive tiers, lowest to highest.
const (
	RankBronze      Rank = "bronze"
	RankSilver      Rank = "silver"
	RankGold        Rank = "gold"
	RankPlatinum    Rank = "platinum"
	RankDiamond     Rank = "diamond"
	RankMaster      Rank = "master"
	RankGrandmaster Rank = "grandmaster"
)

// rankOrdinals is the fixed tier-to-value table used for team balancing.
var rankOrdinals = map[Rank]int{
	RankBronze:      1,
	RankSilver:      2,
	RankGold:        3,
	RankPlatinum:    4,
	RankDiamond:     5,
	RankMaster:      6,
	RankGrandmaster: 7,
}

// Ranks returns all tiers in ascending order.
func Ranks() []Rank {
	return []Rank{
		RankBronze, RankSilver, RankGold, RankPlatinum,
		RankDiamond, RankMaster, RankGrandmaster,
	}
}

// IsValid reports whether the rank is a known tier.
func (r Rank) IsValid() bool {
	_, ok := rankOrdinals[r]
	return ok
}

// Ordinal returns the numeric value of the tier (bronze=1 .. grandmaster=7).
// Unknown ranks map to zero.
func (r Rank) Ordinal() int {
	return rankOrdinals[r]
}
