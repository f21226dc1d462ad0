// Package cache is an optional Redis lookaside cache for webhook item-by-SKU
// lookups. With no Redis address configured every operation is a no-op and
// callers fall through to the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dverbovy/tabstock/internal/server/models"
)

// ErrMiss is returned when the key is absent or caching is disabled.
var ErrMiss = errors.New("cache miss")

const itemTTL = 5 * time.Minute

type ItemCache struct {
	client *redis.Client
}

// NewItemCache connects to Redis at addr. An empty addr yields a disabled
// cache; a failed ping is an error because a configured cache that cannot
// connect is a deployment mistake, not a degraded mode.
func NewItemCache(ctx context.Context, addr string) (*ItemCache, error) {
	if addr == "" {
		return &ItemCache{}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &ItemCache{client: client}, nil
}

func (c *ItemCache) Enabled() bool { return c.client != nil }

func (c *ItemCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func skuKey(sku string) string { return "item:sku:" + sku }

func (c *ItemCache) GetBySKU(ctx context.Context, sku string) (*models.Item, error) {
	if c.client == nil {
		return nil, ErrMiss
	}
	data, err := c.client.Get(ctx, skuKey(sku)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	var item models.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *ItemCache) Put(ctx context.Context, item *models.Item) error {
	if c.client == nil {
		return nil
	}
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, skuKey(item.SKU), data, itemTTL).Err()
}

// Invalidate drops the cached entry for a SKU. Called on every item upsert
// and delete so the webhook path never reads stale quantities.
func (c *ItemCache) Invalidate(ctx context.Context, sku string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, skuKey(sku)).Err()
}
