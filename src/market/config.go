package market

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	RedisAddr     string        `envconfig:"MARKET_REDIS_ADDR"` // empty disables the cache
	RedisPassword string        `envconfig:"MARKET_REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"MARKET_REDIS_DB" default:"0"`
	RedisPrefix   string        `envconfig:"MARKET_REDIS_PREFIX" default:"signaldesk"`
	CacheTTL      time.Duration `envconfig:"MARKET_CACHE_TTL" default:"10s"`
	Points        int           `envconfig:"MARKET_POINTS" default:"20"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
