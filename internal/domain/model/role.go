// Package model contains domain values passed between layers.
package model

// Role is one of the three positions a player can queue for.
type Role string

// Roles a player can register for.
const (
	RoleTank    Role = "tank"
	RoleDPS     Role = "dps"
	RoleSupport Role = "support"
)

// Team and pool sizes for a full five-versus-five match.
const (
	TeamSize = 5
	PoolSize = 10
)

// IsValid reports whether the role is one of the known positions.
func (r Role) IsValid() bool {
	switch r {
	case RoleTank, RoleDPS, RoleSupport:
		return true
	default:
		return false
	}
}

// PoolQuota returns how many players of each role a full match needs.
func PoolQuota() map[Role]int {
	return map[Role]int{
		RoleTank:    2,
		RoleDPS:     4,
		RoleSupport: 4,
	}
}

// TeamQuota returns the per-team role composition (half the pool quota).
func TeamQuota() map[Role]int {
	return map[Role]int{
		RoleTank:    1,
		RoleDPS:     2,
		RoleSupport: 2,
	}
}

// FillOrder returns roles in scarcity-first order for selection.
// Tank and support pools are typically the smallest, so they fill first.
func FillOrder() []Role {
	return []Role{RoleTank, RoleSupport, RoleDPS}
}

// BalanceOrder returns the fixed role order used when splitting teams.
func BalanceOrder() []Role {
	return []Role{RoleTank, RoleDPS, RoleSupport}
}

// RoleSet is the set of roles a player is willing to fill.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from the given roles, ignoring invalid ones.
func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		if r.IsValid() {
			s[r] = struct{}{}
		}
	}
	return s
}

// Has reports whether the set contains the role.
func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// Roles returns the members of the set in fill order for deterministic output.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(s))
	for _, r := range FillOrder() {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}
