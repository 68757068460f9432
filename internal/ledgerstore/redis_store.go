package ledgerstore

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"passkey-smart-wallet/internal/ledger"
)

// RedisStore implements ledger.Store for the temporary tier. Session
// signers map naturally onto Redis's native EXPIRE/TTL semantics — no
// hand-rolled expiry bookkeeping needed, unlike the persistent tier.
// Grounded on the sibling payout-engine service's
// internal/nonce.Manager, which wraps the same *redis.Client for a
// different TTL-scoped key (nonce locks rather than signers).
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an already-connected *redis.Client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(namespace, key string) string {
	return fmt.Sprintf("ledger:%s:%s", namespace, key)
}

func (s *RedisStore) Get(ctx context.Context, namespace, key string) ([]byte, time.Duration, bool, error) {
	redisK := redisKey(namespace, key)

	value, err := s.client.Get(ctx, redisK).Bytes()
	if err == redis.Nil {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}

	ttl, err := s.client.TTL(ctx, redisK).Result()
	if err != nil {
		return nil, 0, false, err
	}
	// redis.TTL returns -1 for a key with no expiry.
	if ttl < 0 {
		ttl = ledger.NoExpiry
	}

	return value, ttl, true, nil
}

func (s *RedisStore) Set(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error {
	redisK := redisKey(namespace, key)
	return s.client.Set(ctx, redisK, value, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, namespace, key string) error {
	return s.client.Del(ctx, redisKey(namespace, key)).Err()
}

func (s *RedisStore) ExtendTTL(ctx context.Context, namespace, key string, floor, extend time.Duration) error {
	redisK := redisKey(namespace, key)

	ttl, err := s.client.TTL(ctx, redisK).Result()
	if err != nil {
		return err
	}
	if ttl < 0 {
		// Key missing, or never expires — nothing to extend.
		return nil
	}
	if ttl >= floor {
		return nil
	}

	return s.client.Expire(ctx, redisK, extend).Err()
}
