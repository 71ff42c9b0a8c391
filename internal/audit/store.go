package audit

import "context"

// Store is the audit persistence boundary. Append-only; sinks that cannot be
// read back (e.g. Kafka) return sentinel.ErrUnavailable from ListByUser.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID string) ([]Event, error)
}
