package kvstore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore backs the key-value contract with a redis instance, the closest
// analog to the hosted KV namespace the bot originally ran against.
type RedisStore struct {
	client *redis.Client
}

func OpenRedis(addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, errors.Wrapf(err, "could not reach redis at %s", addr)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "redis get %s", key)
	}
	return raw, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	return errors.Wrapf(s.client.Set(ctx, key, value, 0).Err(), "redis set %s", key)
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return errors.Wrapf(s.client.Del(ctx, key).Err(), "redis del %s", key)
}

func (s *RedisStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(err, "redis scan %s", prefix)
	}
	return keys, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
