package ports

import (
	"context"
	"time"
)

// Cache is a generic key-value capability for usecases. The lifecycle
// service uses it best-effort to remember the last status label per
// record ref; adapters may be backed by SQLite or other stores.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
