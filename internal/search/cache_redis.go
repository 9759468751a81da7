package search

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"mediahub/discoveryservice/internal/domain"
)

const redisCachePrefix = "discovery:titles:"

// RedisCacheBackend stores title search pages in Redis as JSON.
type RedisCacheBackend struct {
	client *redis.Client
}

func NewRedisCacheBackend(client *redis.Client) *RedisCacheBackend {
	return &RedisCacheBackend{client: client}
}

func (r *RedisCacheBackend) Get(ctx context.Context, key string) (domain.MediaPage, bool, error) {
	data, err := r.client.Get(ctx, redisCachePrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.MediaPage{}, false, nil
		}
		return domain.MediaPage{}, false, err
	}
	var page domain.MediaPage
	if err := json.Unmarshal(data, &page); err != nil {
		return domain.MediaPage{}, false, err
	}
	return page, true, nil
}

func (r *RedisCacheBackend) Set(ctx context.Context, key string, page domain.MediaPage, ttl time.Duration) error {
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisCachePrefix+key, data, ttl).Err()
}

func (r *RedisCacheBackend) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
