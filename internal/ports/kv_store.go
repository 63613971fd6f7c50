package ports

import "context"

// KVStore is an opaque key-value store. Get returns ErrKeyNotFound (possibly
// wrapped) for missing keys.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}
