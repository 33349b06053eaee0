package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Billing BillingConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=watergb_billing"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type BillingConfig struct {
	// Workers bounds the billing cycle's per-house update concurrency.
	Workers int `env:"BILLING_WORKERS, default=8"`
	// CheckInterval is how often the scheduler re-evaluates whether a cycle
	// is due. Anything under a day is fine; the period marker keeps repeat
	// evaluations cheap.
	CheckInterval string `env:"BILLING_CHECK_INTERVAL, default=1h"`
	// Timezone is the IANA zone the "last day of month" rule is evaluated in.
	Timezone string `env:"BILLING_TIMEZONE, default=UTC"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
