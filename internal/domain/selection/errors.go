package selection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pugmate/pugmate/internal/domain/model"
)

// Sentinel kinds for selection failures. These allow errors.Is/As from callers.
var (
	ErrInsufficientPlayers         = errors.New("not enough players")
	ErrInsufficientRoleComposition = errors.New("role quota cannot be met")
)

// InsufficientPlayersError reports a pool smaller than a full match.
type InsufficientPlayersError struct {
	Required int
	Found    int
}

func (e *InsufficientPlayersError) Error() string {
	return fmt.Sprintf("not enough players: need %d, found %d", e.Required, e.Found)
}

// Is makes errors.Is(err, ErrInsufficientPlayers) work for this type.
func (e *InsufficientPlayersError) Is(target error) bool {
	return target == ErrInsufficientPlayers
}

// RoleDeficit describes one role whose quota could not be filled.
type RoleDeficit struct {
	Role      model.Role
	Required  int
	Available int
}

func (d RoleDeficit) String() string {
	return fmt.Sprintf("%s: need %d, have %d", d.Role, d.Required, d.Available)
}

// CompositionError aggregates every role quota the pool failed to cover.
type CompositionError struct {
	Deficits []RoleDeficit
}

func (e *CompositionError) Error() string {
	parts := make([]string, len(e.Deficits))
	for i, d := range e.Deficits {
		parts[i] = d.String()
	}
	return "role quota cannot be met: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrInsufficientRoleComposition) work for this type.
func (e *CompositionError) Is(target error) bool {
	return target == ErrInsufficientRoleComposition
}
