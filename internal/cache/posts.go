package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/titan-observatory/internal/domain"
)

const postsListKey = "titan:posts:list"

// PostCache stores the public post list between writes.
type PostCache interface {
	GetPosts(ctx context.Context) ([]domain.Post, bool, error)
	SetPosts(ctx context.Context, posts []domain.Post) error
	Invalidate(ctx context.Context) error
}

type redisPostCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPostCache returns a Redis-backed PostCache. A nil client yields a
// cache that always misses.
func NewRedisPostCache(client *redis.Client, ttl time.Duration) PostCache {
	return &redisPostCache{client: client, ttl: ttl}
}

func (c *redisPostCache) GetPosts(ctx context.Context) ([]domain.Post, bool, error) {
	if c.client == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, postsListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var posts []domain.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, false, err
	}
	return posts, true, nil
}

func (c *redisPostCache) SetPosts(ctx context.Context, posts []domain.Post) error {
	if c.client == nil {
		return nil
	}
	raw, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, postsListKey, raw, c.ttl).Err()
}

func (c *redisPostCache) Invalidate(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, postsListKey).Err()
}
