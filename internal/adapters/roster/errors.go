package roster

import "errors"

// Sentinel kinds for roster errors. These allow errors.Is/As from callers.
var (
	ErrNotFound      = errors.New("player not found")
	ErrInvalidPlayer = errors.New("invalid player record")
)
