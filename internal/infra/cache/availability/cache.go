package availability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	valueKeyPrefix  = "avail:svc:"
	memberKeyPrefix = "avail:prov:"
)

// Cache кеш вычисленной доступности услуг в Redis.
// Мутации сбрасывают записи явной инвалидацией по поставщику. Записи,
// зависящие от активных холдов, дополнительно ограничены по времени:
// истечение холда возвращает вместимость без какой-либо мутации, поэтому
// такая запись живёт не дольше ближайшего expires_at.
type Cache struct {
	rdb *redis.Client
}

// New создает кеш поверх подключения к Redis
func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// Get возвращает закешированную доступность услуги.
// (nil, nil) означает cache miss.
func (c *Cache) Get(ctx context.Context, serviceID, providerID int64) (*bool, error) {
	val, err := c.rdb.Get(ctx, valueKey(serviceID, providerID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("availability cache: get: %w", err)
	}

	available := val == "1"
	return &available, nil
}

// Set сохраняет вычисленную доступность и регистрирует ключ в множестве
// поставщика, чтобы инвалидация по поставщику нашла все его записи.
// ttl > 0 ограничивает жизнь записи; ttl == 0 — запись живёт до инвалидации.
func (c *Cache) Set(ctx context.Context, serviceID, providerID int64, available bool, ttl time.Duration) error {
	key := valueKey(serviceID, providerID)

	val := "0"
	if available {
		val = "1"
	}

	if err := c.rdb.Set(ctx, key, val, ttl).Err(); err != nil {
		return fmt.Errorf("availability cache: set: %w", err)
	}
	if err := c.rdb.SAdd(ctx, memberKey(providerID), key).Err(); err != nil {
		return fmt.Errorf("availability cache: register key: %w", err)
	}

	return nil
}

// InvalidateProvider сбрасывает все закешированные записи поставщика.
// Вызывается на каждой мутации холдов и занятости слотов этого поставщика.
func (c *Cache) InvalidateProvider(ctx context.Context, providerID int64) error {
	setKey := memberKey(providerID)

	keys, err := c.rdb.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("availability cache: list keys: %w", err)
	}

	if len(keys) > 0 {
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("availability cache: delete values: %w", err)
		}
	}

	if err := c.rdb.Del(ctx, setKey).Err(); err != nil {
		return fmt.Errorf("availability cache: delete key set: %w", err)
	}

	return nil
}

func valueKey(serviceID, providerID int64) string {
	return valueKeyPrefix + strconv.FormatInt(serviceID, 10) + ":prov:" + strconv.FormatInt(providerID, 10)
}

func memberKey(providerID int64) string {
	return memberKeyPrefix + strconv.FormatInt(providerID, 10) + ":members"
}
