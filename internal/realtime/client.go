package realtime

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/grandmeridian/room-ops-backend/internal/config"
)

// Channel names for the push streams. Every server process publishes its
// committed writes here and every engine instance subscribes.
const (
	RoomChangesChannel     = "roomops.room_changes"
	ActivityInsertsChannel = "roomops.activity_inserts"
)

// NewClient creates a Redis client for the push stream
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Ping tests the Redis connection
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}
