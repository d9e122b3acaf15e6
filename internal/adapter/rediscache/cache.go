// Package rediscache caches barcode lookups in Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"fooddiary/internal/domain"
)

const keyPrefix = "fooddiary:product:"

// Store is the subset of redis.Cmdable the cache needs.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// ProductCache wraps a domain.ProductLookup and stores successful lookups.
// Redis failures are logged and the lookup falls through to the wrapped
// client. Failed lookups are never cached.
type ProductCache struct {
	next  domain.ProductLookup
	store Store
	ttl   time.Duration
}

// New returns a ProductCache in front of next.
func New(next domain.ProductLookup, store Store, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ProductCache{next: next, store: store, ttl: ttl}
}

// NewClient connects to the Redis server at redisURL and pings it.
func NewClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Printf("connected to redis at %s", opts.Addr)
	return client, nil
}

type cachedFacts struct {
	Name            string  `json:"name"`
	EnergyValue     float64 `json:"energyValue"`
	ServingSize     string  `json:"servingSize"`
	ServingQuantity float64 `json:"servingQuantity"`
}

// LookupBarcode implements domain.ProductLookup.
func (c *ProductCache) LookupBarcode(ctx context.Context, barcode string) (*domain.ProductFacts, error) {
	key := keyPrefix + barcode

	data, err := c.store.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cf cachedFacts
		if err := json.Unmarshal(data, &cf); err == nil {
			return &domain.ProductFacts{
				Name:            cf.Name,
				EnergyValue:     cf.EnergyValue,
				ServingSize:     cf.ServingSize,
				ServingQuantity: cf.ServingQuantity,
			}, nil
		}
		log.Printf("rediscache: discarding corrupt entry %s", key)
	case !errors.Is(err, redis.Nil):
		log.Printf("rediscache: get %s: %v", key, err)
	}

	facts, err := c.next.LookupBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(cachedFacts{
		Name:            facts.Name,
		EnergyValue:     facts.EnergyValue,
		ServingSize:     facts.ServingSize,
		ServingQuantity: facts.ServingQuantity,
	})
	if err == nil {
		if err := c.store.Set(ctx, key, data, c.ttl).Err(); err != nil {
			log.Printf("rediscache: set %s: %v", key, err)
		}
	}
	return facts, nil
}
