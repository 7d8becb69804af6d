package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pageTTL = 60 * time.Second

// PageCache holds short-lived JSON projections of public auction pages.
// Mutations to an auction or its lots invalidate the auction's keys so the
// next read re-renders from the database.
type PageCache struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func NewPageCache(client *redis.Client) *PageCache {
	return &PageCache{client: client}
}

func (c *PageCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Get unmarshals the cached value for key into dest. The second return is
// false on a miss; cache errors are reported but treated as misses by callers.
func (c *PageCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c == nil {
		return false, nil
	}
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached value: %w", err)
	}
	return true, nil
}

func (c *PageCache) Set(ctx context.Context, key string, value interface{}) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for cache: %w", err)
	}
	if err := c.client.Set(ctx, key, b, pageTTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}

// InvalidateAuction drops every cached page derived from the auction.
func (c *PageCache) InvalidateAuction(ctx context.Context, auctionID string) error {
	if c == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, "auction:"+auctionID+":*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return nil
}

// LotsPageKey names the cached public lots page for one auction.
func LotsPageKey(auctionID string, page, perPage int) string {
	return fmt.Sprintf("auction:%s:lots:%d:%d", auctionID, page, perPage)
}
