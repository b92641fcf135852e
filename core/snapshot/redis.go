package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps the baseline in one hash: field per identity, RFC3339 timestamp as value.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

// NewRedisStore creates a store over the given hash key.
func NewRedisStore(client redis.Cmdable, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// FindAll reads the whole hash.
func (s *RedisStore) FindAll(ctx context.Context) ([]Entry, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, storageErr("find all", err)
	}

	entries := make([]Entry, 0, len(fields))
	for identity, raw := range fields {
		modified, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, storageErr("find all", fmt.Errorf("decode %s: %w", identity, err))
		}
		entries = append(entries, NewEntry(identity, modified))
	}
	return Sorted(entries), nil
}

// InsertOrUpdate sets the hash field for the entry.
func (s *RedisStore) InsertOrUpdate(ctx context.Context, entry Entry) error {
	value := entry.LastModified.UTC().Format(time.RFC3339Nano)
	if err := s.client.HSet(ctx, s.key, entry.Identity, value).Err(); err != nil {
		return storageErr("insert or update "+entry.Identity, err)
	}
	return nil
}

// ClearAll deletes the hash.
func (s *RedisStore) ClearAll(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return storageErr("clear all", err)
	}
	return nil
}
