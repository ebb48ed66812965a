package executors

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Pairs          []string      `envconfig:"AUTOPILOT_PAIRS" default:"EUR/USD,GBP/USD,USD/JPY"`
	LoopPeriod     time.Duration `envconfig:"AUTOPILOT_PERIOD" default:"5m"`
	IgnoreNoTrade  bool          `envconfig:"AUTOPILOT_IGNORE_NO_TRADE" default:"false"`
	RunImmediately bool          `envconfig:"AUTOPILOT_RUN_IMMEDIATELY" default:"true"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
