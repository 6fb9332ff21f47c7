package repository

import "context"

// CacheRepository stores serialized values by key. Implementations expire
// entries after their configured TTL.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}
