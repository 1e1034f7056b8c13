package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
)

const (
	keyPrefix  = "maintenance-booking:"
	defaultTTL = 5 * time.Minute
)

// DirectoryCache read-through кэш справочников в Redis.
// Кэшируется только каталог временных слотов: он общий для всех центров и меняется миграциями.
// Остальные сущности читаются напрямую. Ошибки Redis не ломают запрос: данные берутся из базы.
type DirectoryCache struct {
	next   Directory
	redis  *redis.Client
	ttl    time.Duration
	logger Logger
}

// NewDirectoryCache создает кэш поверх next. При client == nil кэш прозрачен.
func NewDirectoryCache(next Directory, client *redis.Client, ttl time.Duration, logger Logger) *DirectoryCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &DirectoryCache{
		next:   next,
		redis:  client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *DirectoryCache) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return c.next.GetCustomer(ctx, id)
}

func (c *DirectoryCache) GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return c.next.GetVehicle(ctx, id)
}

// GetCenter, GetService и GetTechnician не кэшируются: IsActive всегда читается из базы
func (c *DirectoryCache) GetCenter(ctx context.Context, id int64) (*domain.ServiceCenter, error) {
	return c.next.GetCenter(ctx, id)
}

func (c *DirectoryCache) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	return c.next.GetService(ctx, id)
}

func (c *DirectoryCache) GetTechnician(ctx context.Context, id int64) (*domain.Technician, error) {
	return c.next.GetTechnician(ctx, id)
}

func (c *DirectoryCache) GetTimeSlot(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	return readThrough(ctx, c, fmt.Sprintf("timeslot:%d", id), func() (*domain.TimeSlot, error) {
		return c.next.GetTimeSlot(ctx, id)
	})
}

func (c *DirectoryCache) ListTimeSlots(ctx context.Context) ([]*domain.TimeSlot, error) {
	var cached []*domain.TimeSlot
	if c.readCache(ctx, "timeslots", &cached) {
		return cached, nil
	}

	slots, err := c.next.ListTimeSlots(ctx)
	if err != nil {
		return nil, err
	}
	c.writeCache(ctx, "timeslots", slots)
	return slots, nil
}

// Invalidate удаляет ключи справочника, например после изменения каталога слотов
func (c *DirectoryCache) Invalidate(ctx context.Context, keys ...string) error {
	if c.redis == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, key := range keys {
		full = append(full, keyPrefix+key)
	}
	return c.redis.Del(ctx, full...).Err()
}

// Ping проверяет доступность Redis
func (c *DirectoryCache) Ping(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Ping(ctx).Err()
}

func readThrough[T any](ctx context.Context, c *DirectoryCache, key string, load func() (*T, error)) (*T, error) {
	var cached T
	if c.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	value, err := load()
	if err != nil {
		return nil, err
	}
	c.writeCache(ctx, key, value)
	return value, nil
}

func (c *DirectoryCache) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil {
		return false
	}

	val, err := c.redis.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) && c.logger != nil {
			c.logger.Warn("DirectoryCache: get %s failed: %v", key, err)
		}
		return false
	}

	if err := json.Unmarshal(val, out); err != nil {
		if c.logger != nil {
			c.logger.Warn("DirectoryCache: decode %s failed: %v", key, err)
		}
		return false
	}
	return true
}

func (c *DirectoryCache) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil {
		return
	}

	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil && c.logger != nil {
		c.logger.Warn("DirectoryCache: set %s failed: %v", key, err)
	}
}
