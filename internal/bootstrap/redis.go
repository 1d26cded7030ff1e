package bootstrap

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/imobsite/listing-manager/internal/config"
	"github.com/imobsite/listing-manager/internal/logger"
)

// connectionTimeout bounds the startup connection check.
const connectionTimeout = 5 * time.Second

// SetupRedis creates the shared Redis client for the image cache and the
// event stream. Returns nil when Redis is disabled or unreachable; both
// consumers degrade to no-ops on a nil client.
func SetupRedis(cfg *config.Config, log logger.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis not available, cache and events disabled",
			logger.Error(err),
		)
		client.Close()
		return nil
	}

	log.Info("Redis connected",
		logger.String("redis_address", cfg.Redis.Address),
	)
	return client
}
