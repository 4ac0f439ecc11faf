package store

import "github.com/google/uuid"

// idGenerator mints task IDs. Replaced in tests for deterministic fixtures.
var idGenerator = func() string {
	return uuid.NewString()
}
