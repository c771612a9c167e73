package ports

import "context"

// KeyValueStore is the durable string store mirroring session state.
// Get returns domain.ErrKeyNotFound (possibly wrapped) for missing keys.
// Delete of a missing key is not an error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
