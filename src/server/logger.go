package server

import (
	"strings"

	logger "github.com/sirupsen/logrus"
)

// SetupLogger configures the global logrus logger from LOG_LEVEL and LOG_FORMAT.
func SetupLogger(config *Config) {
	level, err := logger.ParseLevel(strings.ToLower(config.LogLevel))
	if err != nil {
		level = logger.DebugLevel // safe fallback
	}
	logger.SetLevel(level)

	if strings.EqualFold(config.LogFormat, "json") {
		logger.SetFormatter(&logger.JSONFormatter{})
		return
	}
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
}
