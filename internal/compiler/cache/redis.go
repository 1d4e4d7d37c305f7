package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the optional shared target cache for multi-worker
// builds: every worker hashing the same source gets the same key, so
// one worker's emit serves the whole farm.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces this project's keys; defaults to "sailfin:cache:".
	Prefix string
	// TTL expires entries; zero means no expiry.
	TTL time.Duration
}

// NewRedisStore connects to Redis and verifies the connection with a
// ping before returning.
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis cache: %w", err)
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "sailfin:cache:"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: opts.TTL}, nil
}

func (s *RedisStore) key(hash string) string {
	return s.prefix + hash
}

func (s *RedisStore) Get(hash string) (*TargetEntry, bool, error) {
	data, err := s.client.Get(context.Background(), s.key(hash)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	var entry TargetEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry for %s: %w", hash, err)
	}
	return &entry, true, nil
}

func (s *RedisStore) Put(entry *TargetEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := s.client.Set(context.Background(), s.key(entry.Hash), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(hash string) error {
	if err := s.client.Del(context.Background(), s.key(hash)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

func (s *RedisStore) Len() (int, error) {
	var count int
	var cursor uint64
	ctx := context.Background()
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", 100).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to scan cache keys: %w", err)
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
