package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vprokhorov/airbook/config"
	"github.com/vprokhorov/airbook/internal/domain"
)

type RedisCache struct {
	client          *redis.Client
	availabilityTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, availabilityTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:          redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		availabilityTTL: availabilityTTL,
	}
}

// AcquireSeatLock takes a short-lived exclusive claim on one seat of one
// flight. It only shortcuts the conflict answer, the database constraint
// stays the source of truth.
func (c *RedisCache) AcquireSeatLock(ctx context.Context, flightID int64, row, seat int, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, seatLockKey(flightID, row, seat), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseSeatLock(ctx context.Context, flightID int64, row, seat int) error {
	return c.client.Del(ctx, seatLockKey(flightID, row, seat)).Err()
}

func (c *RedisCache) GetSeatMap(ctx context.Context, flightID int64) (*domain.SeatMap, error) {
	data, err := c.client.Get(ctx, seatMapKey(flightID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var sm domain.SeatMap
	if err := json.Unmarshal(data, &sm); err != nil {
		return nil, err
	}
	return &sm, nil
}

func (c *RedisCache) SetSeatMap(ctx context.Context, sm *domain.SeatMap) error {
	payload, err := json.Marshal(sm)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, seatMapKey(sm.FlightID), payload, c.availabilityTTL).Err()
}

// InvalidateSeatMap drops the cached availability for a flight. Called
// after every committed order touching that flight.
func (c *RedisCache) InvalidateSeatMap(ctx context.Context, flightID int64) error {
	return c.client.Del(ctx, seatMapKey(flightID)).Err()
}

func seatMapKey(flightID int64) string {
	return fmt.Sprintf("cache:flight:%d:seats", flightID)
}

func seatLockKey(flightID int64, row, seat int) string {
	return fmt.Sprintf("lock:flight:%d:seat:%d:%d", flightID, row, seat)
}
