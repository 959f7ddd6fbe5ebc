package credstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the token under a per-device key, for clients that share
// a Redis instance instead of a local disk.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, deviceID string) *RedisStore {
	return &RedisStore{
		client: client,
		key:    "credentials:" + deviceID,
	}
}

func (s *RedisStore) Save(ctx context.Context, token string) error {
	return s.client.Set(ctx, s.key, token, 0).Err()
}

func (s *RedisStore) Load(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return token, err
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
