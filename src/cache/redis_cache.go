package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quillforge/quillforge/src/config"
	"github.com/quillforge/quillforge/src/models"
)

// ResponseCache de-duplicates identical completion requests through redis.
// Expiry rides on redis TTLs, so stale entries vanish without a sweeper.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResponseCache(cfg *config.RedisConfig) (*ResponseCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &ResponseCache{
		client: client,
		ttl:    cfg.CacheTTL,
	}, nil
}

// Get returns the cached response, or nil without error on a miss.
func (c *ResponseCache) Get(ctx context.Context, key string) (*models.CompletionResponse, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var response models.CompletionResponse
	if err := json.Unmarshal([]byte(val), &response); err != nil {
		return nil, err
	}

	return &response, nil
}

func (c *ResponseCache) Set(ctx context.Context, key string, response *models.CompletionResponse) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *ResponseCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *ResponseCache) Close() error {
	return c.client.Close()
}
