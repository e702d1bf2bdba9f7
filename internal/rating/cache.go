package rating

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const avgCacheTTL = 60 * time.Second

// Cache is an optional redis read-through in front of AverageForStore.
// A nil *Cache (or one built from a nil client) is valid and reads the
// database directly, so the service runs unchanged without redis.
type Cache struct {
	rdb *redis.Client
}

func NewCache(rdb *redis.Client) *Cache {
	if rdb == nil {
		return nil
	}
	return &Cache{rdb: rdb}
}

func avgKey(storeID uint) string {
	return fmt.Sprintf("store:avg:%d", storeID)
}

// AverageForStore serves the store average from redis when possible.
// Redis faults degrade to a direct read, never to a request failure.
func (c *Cache) AverageForStore(ctx context.Context, db *gorm.DB, storeID uint) (float64, error) {
	if c == nil {
		return AverageForStore(db, storeID)
	}

	key := avgKey(storeID)
	if val, err := c.rdb.Get(ctx, key).Result(); err == nil {
		if avg, perr := strconv.ParseFloat(val, 64); perr == nil {
			return avg, nil
		}
	} else if err != redis.Nil {
		logrus.Warnf("average cache read failed for store %d: %v", storeID, err)
	}

	avg, err := AverageForStore(db, storeID)
	if err != nil {
		return 0, err
	}

	if err := c.rdb.Set(ctx, key, strconv.FormatFloat(avg, 'f', -1, 64), avgCacheTTL).Err(); err != nil {
		logrus.Warnf("average cache write failed for store %d: %v", storeID, err)
	}
	return avg, nil
}

// Invalidate drops cached averages after a write touching the stores.
func (c *Cache) Invalidate(ctx context.Context, storeIDs ...uint) {
	if c == nil || len(storeIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(storeIDs))
	for _, id := range storeIDs {
		keys = append(keys, avgKey(id))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logrus.Warnf("average cache invalidation failed: %v", err)
	}
}
