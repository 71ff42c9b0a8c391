package store

import (
	"fmt"

	"github.com/google/uuid"

	"studiogate/internal/sentinel"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return an error wrapping sentinel.ErrNotFound when the profile does not exist
// - Return nil for successful operations
// - Return errors wrapping sentinel.ErrUnavailable for infrastructure failures
//   (DB errors, network issues) so callers can distinguish "no profile" from
//   "could not determine"

func notFound(id uuid.UUID) error {
	return fmt.Errorf("profile %s not found: %w", id, sentinel.ErrNotFound)
}

func alreadyExists(id uuid.UUID) error {
	return fmt.Errorf("profile %s already exists: %w", id, sentinel.ErrInvalidState)
}
