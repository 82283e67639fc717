package reskey

import "context"

// Store persists the advisory set of reserved (client, workshop) keys.
// It is a best-effort local hint only; the upstream uniqueness constraint
// on reservations is the source of truth.
type Store interface {
	Has(ctx context.Context, key string) (bool, error)
	Add(ctx context.Context, clientID, atelierID int, key string) error
	ListByClient(ctx context.Context, clientID int) ([]string, error)
}
