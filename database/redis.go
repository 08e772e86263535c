package database

import (
	"fmt"

	"github.com/lshigami/Quokka/config"
	"github.com/redis/go-redis/v9"
)

// NewRedis builds the client used for the refresh-token store.
func NewRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})
}
