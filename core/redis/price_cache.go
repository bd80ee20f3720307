package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	redis "github.com/go-redis/redis/v8"
)

const priceCacheTTL = 30 * time.Second

func priceKey(symbol string) string {
	return fmt.Sprintf("price:jupiter:%s", symbol)
}

// SetPriceCache stores one symbol's USD price. No-op when the cache is
// disabled.
func SetPriceCache(ctx context.Context, symbol string, price float64) error {
	client := GetRedisInst()
	if client == nil {
		return nil
	}

	err := client.Set(ctx, priceKey(symbol), strconv.FormatFloat(price, 'f', -1, 64), priceCacheTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to set %s: %v", priceKey(symbol), err)
	}
	return nil
}

// GetPriceCache returns the cached price for a symbol; the bool is
// false on a miss or when the cache is disabled.
func GetPriceCache(ctx context.Context, symbol string) (float64, bool) {
	client := GetRedisInst()
	if client == nil {
		return 0, false
	}

	val, err := client.Get(ctx, priceKey(symbol)).Result()
	if err == redis.Nil || err != nil {
		return 0, false
	}

	price, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}
