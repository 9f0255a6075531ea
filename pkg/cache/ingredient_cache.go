package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// IngredientCacheTTL is the time-to-live for cached ingredients. Stock
	// levels move with every deduction, so entries stay short-lived and are
	// invalidated on every write.
	IngredientCacheTTL = 10 * time.Minute

	ingredientCacheKeyPrefix = "ingredient"
)

// CachedIngredient is the denormalized read model stored in Redis. Quantities
// are in base units, same as the domain aggregate.
type CachedIngredient struct {
	ID              uuid.UUID `json:"id"`
	ShopID          uuid.UUID `json:"shop_id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	BaseUnit        string    `json:"base_unit"`
	QuantityOnHand  float64   `json:"quantity_on_hand"`
	CostPerBaseUnit float64   `json:"cost_per_base_unit"`
	MinStockLevel   float64   `json:"min_stock_level"`
	CreatedAt       time.Time `json:"created_at"`
}

// IngredientCache provides structured read/write operations for ingredient
// cache entries. Keys are scoped by shopID to prevent cross-tenant data
// leakage. Key format: "ingredient:{shopID}:{ingredientID}"
type IngredientCache struct {
	client *RedisClient
}

// NewIngredientCache creates a new IngredientCache backed by the given RedisClient.
func NewIngredientCache(r *RedisClient) *IngredientCache {
	return &IngredientCache{client: r}
}

// Get retrieves a cached ingredient by shop + ingredient ID.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *IngredientCache) Get(ctx context.Context, shopID, ingredientID uuid.UUID) (*CachedIngredient, error) {
	key := c.key(shopID, ingredientID)
	vals, err := c.client.Client().HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil // key not found
	}

	id, err := uuid.Parse(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	sid, err := uuid.Parse(vals["shop_id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse shop_id: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, vals["created_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse created_at: %w", err)
	}
	qty, err := strconv.ParseFloat(vals["quantity_on_hand"], 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse quantity_on_hand: %w", err)
	}
	cost, err := strconv.ParseFloat(vals["cost_per_base_unit"], 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse cost_per_base_unit: %w", err)
	}
	minStock, err := strconv.ParseFloat(vals["min_stock_level"], 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse min_stock_level: %w", err)
	}

	return &CachedIngredient{
		ID:              id,
		ShopID:          sid,
		Name:            vals["name"],
		Category:        vals["category"],
		BaseUnit:        vals["base_unit"],
		QuantityOnHand:  qty,
		CostPerBaseUnit: cost,
		MinStockLevel:   minStock,
		CreatedAt:       createdAt,
	}, nil
}

// Set writes a cached ingredient as a Redis hash with a short TTL.
// Uses a pipeline to set all fields and the TTL atomically.
func (c *IngredientCache) Set(ctx context.Context, ing *CachedIngredient) error {
	key := c.key(ing.ShopID, ing.ID)
	pipe := c.client.Client().Pipeline()
	pipe.HSet(ctx, key,
		"id", ing.ID.String(),
		"shop_id", ing.ShopID.String(),
		"name", ing.Name,
		"category", ing.Category,
		"base_unit", ing.BaseUnit,
		"quantity_on_hand", strconv.FormatFloat(ing.QuantityOnHand, 'f', -1, 64),
		"cost_per_base_unit", strconv.FormatFloat(ing.CostPerBaseUnit, 'f', -1, 64),
		"min_stock_level", strconv.FormatFloat(ing.MinStockLevel, 'f', -1, 64),
		"created_at", ing.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, IngredientCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached ingredient. Call after any write that changes stock
// or cost so readers never see stale quantities.
func (c *IngredientCache) Delete(ctx context.Context, shopID, ingredientID uuid.UUID) error {
	if err := c.client.Client().Del(ctx, c.key(shopID, ingredientID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// key builds the Redis key: "ingredient:{shopID}:{ingredientID}"
func (c *IngredientCache) key(shopID, ingredientID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", ingredientCacheKeyPrefix, shopID, ingredientID)
}
