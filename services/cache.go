package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/choripam/choripam-api/models"
)

const catalogCacheTTL = 5 * time.Minute

// CatalogCache is a redis-backed cache-first layer for catalog reads.
// Catalog data changes rarely, so products and categories are served from
// cache when possible; orders are never cached anywhere. A nil *CatalogCache
// is valid and behaves as a permanent miss, so a deployment without redis
// just reads through to the backend.
type CatalogCache struct {
	client *redis.Client
}

// NewCatalogCache connects to redis and verifies the connection
func NewCatalogCache(redisURL string) (*CatalogCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &CatalogCache{client: client}, nil
}

func productsKey(restaurantID string) string {
	return "catalog:products:" + restaurantID
}

func categoriesKey(restaurantID string) string {
	return "catalog:categories:" + restaurantID
}

// GetProducts returns the cached product list for a restaurant, if any
func (c *CatalogCache) GetProducts(ctx context.Context, restaurantID string) ([]models.LegacyProduct, bool) {
	var products []models.LegacyProduct
	if !c.get(ctx, productsKey(restaurantID), &products) {
		return nil, false
	}
	return products, true
}

// SetProducts caches the product list for a restaurant
func (c *CatalogCache) SetProducts(ctx context.Context, restaurantID string, products []models.LegacyProduct) {
	c.set(ctx, productsKey(restaurantID), products)
}

// GetCategories returns the cached category list for a restaurant, if any
func (c *CatalogCache) GetCategories(ctx context.Context, restaurantID string) ([]models.Category, bool) {
	var categories []models.Category
	if !c.get(ctx, categoriesKey(restaurantID), &categories) {
		return nil, false
	}
	return categories, true
}

// SetCategories caches the category list for a restaurant
func (c *CatalogCache) SetCategories(ctx context.Context, restaurantID string, categories []models.Category) {
	c.set(ctx, categoriesKey(restaurantID), categories)
}

// Invalidate drops all catalog entries for a restaurant. Called after every
// product mutation so subsequent reads are consistent.
func (c *CatalogCache) Invalidate(ctx context.Context, restaurantID string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, productsKey(restaurantID), categoriesKey(restaurantID)).Err(); err != nil {
		log.Printf("Failed to invalidate catalog cache for %s: %v", restaurantID, err)
	}
}

// Close releases the redis connection
func (c *CatalogCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func (c *CatalogCache) get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Cache read failed for %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		log.Printf("Cache entry for %s is corrupt, dropping it: %v", key, err)
		c.client.Del(ctx, key)
		return false
	}
	return true
}

func (c *CatalogCache) set(ctx context.Context, key string, value interface{}) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		log.Printf("Failed to marshal cache entry for %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, payload, catalogCacheTTL).Err(); err != nil {
		log.Printf("Cache write failed for %s: %v", key, err)
	}
}
