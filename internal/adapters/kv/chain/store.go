package chain

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/bnema/rally-cli/internal/ports"
)

// Store writes to primary and falls back to a second backend when primary
// fails. Reads consult the fallback when primary errors or misses, so primary
// never keeps a copy older than the fallback's.
type Store struct {
	primary  ports.KVStore
	fallback ports.KVStore
}

var _ ports.KVStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary kv store is nil")
	errNilFallbackStore = errors.New("fallback kv store is nil")
)

func NewStore(primary ports.KVStore, fallback ports.KVStore) *Store {
	store, err := NewStoreChecked(primary, fallback)
	if err != nil {
		panic(err)
	}

	return store
}

func NewStoreChecked(primary ports.KVStore, fallback ports.KVStore) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}

	return &Store{primary: primary, fallback: fallback}, nil
}

// Put writes to primary. When primary fails the value goes to the fallback
// and any older copy in primary is removed, since Get reads primary first.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	err := s.primary.Put(ctx, key, value)
	if err == nil {
		return nil
	}
	if shouldSkipFallback(err) {
		return err
	}

	if fallbackErr := s.fallback.Put(ctx, key, value); fallbackErr != nil {
		return fmt.Errorf("primary backend put failed: %w; fallback backend put failed: %w", err, fallbackErr)
	}

	if staleErr := s.primary.Delete(ctx, key); staleErr != nil {
		return fmt.Errorf("primary backend put failed: %w; stale primary entry could not be removed: %w", err, staleErr)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.primary.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if shouldSkipFallback(err) {
		return nil, err
	}

	fallbackValue, fallbackErr := s.fallback.Get(ctx, key)
	if fallbackErr == nil {
		return fallbackValue, nil
	}

	return nil, fmt.Errorf("primary backend get failed: %w; fallback backend get failed: %w", err, fallbackErr)
}

// Delete removes key from both backends, since a failed primary write may
// have left a copy in the fallback.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.primary.Delete(ctx, key)
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Delete(ctx, key)
	switch {
	case err == nil && fallbackErr == nil:
		return nil
	case err != nil && fallbackErr != nil:
		return fmt.Errorf("primary backend delete failed: %w; fallback backend delete failed: %w", err, fallbackErr)
	case err != nil:
		return fmt.Errorf("primary backend delete failed: %w", err)
	default:
		return fmt.Errorf("fallback backend delete failed: %w", fallbackErr)
	}
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	primaryKeys, err := s.primary.Keys(ctx, prefix)
	if shouldSkipFallback(err) {
		return nil, err
	}

	fallbackKeys, fallbackErr := s.fallback.Keys(ctx, prefix)
	if err != nil && fallbackErr != nil {
		return nil, fmt.Errorf("primary backend keys failed: %w; fallback backend keys failed: %w", err, fallbackErr)
	}

	seen := make(map[string]struct{}, len(primaryKeys)+len(fallbackKeys))
	keys := make([]string, 0, len(primaryKeys)+len(fallbackKeys))
	for _, key := range append(primaryKeys, fallbackKeys...) {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys, nil
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
