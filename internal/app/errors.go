package app

import "errors"

// Sentinel kinds for orchestration errors.
var (
	// ErrDuplicateResult marks a match completion that was already applied.
	ErrDuplicateResult = errors.New("match result already applied")

	// ErrNoPlayerLookup is returned by CreateMatchTeams when the service
	// was built without a player lookup to resolve present users with.
	ErrNoPlayerLookup = errors.New("no player lookup configured")

	// ErrNoRecorder is returned by CompleteMatch when the service was
	// built without a result recorder to hand persistence to.
	ErrNoRecorder = errors.New("no result recorder configured")
)
