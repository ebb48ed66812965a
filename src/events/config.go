package events

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"` // empty disables the kafka publisher
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"signals.created"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
