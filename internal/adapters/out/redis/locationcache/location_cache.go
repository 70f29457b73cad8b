// Package locationcache stores delivery partner live positions in redis with
// a TTL, so a partner that stops reporting silently ages out of matching.
package locationcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"meddispatch/internal/core/domain/model/kernel"
	"meddispatch/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "partner:location:"

// RedisLocationCache implements the LocationCache port on redis.
type RedisLocationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocationCache creates a cache whose entries expire after ttl.
func NewRedisLocationCache(client *redis.Client, ttl time.Duration) *RedisLocationCache {
	return &RedisLocationCache{client: client, ttl: ttl}
}

type locationPayload struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SetLocation records the partner's current position and refreshes the TTL.
func (c *RedisLocationCache) SetLocation(ctx context.Context, partnerID kernel.UUID, location kernel.GeoPoint) error {
	if err := errors.Join(partnerID.Validate(), location.Validate()); err != nil {
		return err
	}

	payload, err := json.Marshal(locationPayload{
		Lat: location.Latitude(),
		Lon: location.Longitude(),
	})
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key(partnerID), payload, c.ttl).Err()
}

// GetLocation returns the partner's last known position.
// Returns an ObjectNotFoundError when the entry expired or never existed.
func (c *RedisLocationCache) GetLocation(ctx context.Context, partnerID kernel.UUID) (kernel.GeoPoint, error) {
	if err := partnerID.Validate(); err != nil {
		return kernel.GeoPoint{}, err
	}

	raw, err := c.client.Get(ctx, key(partnerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return kernel.GeoPoint{}, errs.NewObjectNotFoundError("partner location", partnerID.String())
	}
	if err != nil {
		return kernel.GeoPoint{}, err
	}

	var payload locationPayload
	if err = json.Unmarshal(raw, &payload); err != nil {
		return kernel.GeoPoint{}, err
	}

	return kernel.NewGeoPoint(payload.Lat, payload.Lon)
}

func key(partnerID kernel.UUID) string {
	return fmt.Sprintf("%s%s", keyPrefix, partnerID)
}
