package database

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver              string `envconfig:"DATABASE_DRIVER" default:"postgres"` // "postgres" or "sqlite"
	DatabaseURLMain     string `envconfig:"DATABASE_URL_MAIN"`
	DatabaseURLReadOnly string `envconfig:"DATABASE_URL_READONLY"` // empty means reads use MainDB
	GormLogLevel        int    `envconfig:"GORM_LOG_LEVEL" default:"2"`
	MaxOpenConns        int    `envconfig:"DATABASE_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns        int    `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"10"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}

// MainDSN returns DATABASE_URL_MAIN, or a DSN built from the libpq PG* variables.
func (c Config) MainDSN() string {
	if c.DatabaseURLMain != "" {
		return c.DatabaseURLMain
	}
	if c.Driver == DriverSQLite {
		return "file:signaldesk.db?cache=shared"
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		envOr("PGHOST", "localhost"),
		envOr("PGUSER", "postgres"),
		os.Getenv("PGPASSWORD"),
		envOr("PGDATABASE", "signaldesk"),
		envOr("PGPORT", "5432"),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
