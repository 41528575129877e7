package database

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Davsooonowy/TripWhizz/config"
)

var Redis *redis.Client

// ConnectRedis is optional: the service runs without a cache if Redis
// is unreachable.
func ConnectRedis() {
	opts, err := redis.ParseURL(config.AppConfig.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("invalid REDIS_URL, running without cache")
		return
	}

	client := redis.NewClient(opts)
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Warn().Err(err).Msg("redis not available, running without cache")
		return
	}

	Redis = client
	log.Info().Msg("redis connected")
}
