package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshTokenStore tracks which refresh-token ids are still live so rotation
// can revoke the old token and reject replays.
type RefreshTokenStore interface {
	Save(ctx context.Context, tokenID string, userID uint, ttl time.Duration) error
	Exists(ctx context.Context, tokenID string) (bool, error)
	Delete(ctx context.Context, tokenID string) error
}

type redisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) RefreshTokenStore {
	return &redisTokenStore{client: client}
}

func refreshKey(tokenID string) string {
	return "refresh:" + tokenID
}

func (s *redisTokenStore) Save(ctx context.Context, tokenID string, userID uint, ttl time.Duration) error {
	return s.client.Set(ctx, refreshKey(tokenID), fmt.Sprintf("%d", userID), ttl).Err()
}

func (s *redisTokenStore) Exists(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, refreshKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisTokenStore) Delete(ctx context.Context, tokenID string) error {
	return s.client.Del(ctx, refreshKey(tokenID)).Err()
}
