// Package config loads runtime settings from the environment and opens the
// backing stores.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config holds application configuration values loaded from .env and the environment.
type Config struct {
	Port                    string        `mapstructure:"PORT"`
	Env                     string        `mapstructure:"ENV"`
	LogLevel                string        `mapstructure:"LOG_LEVEL"`
	MetricsPort             string        `mapstructure:"METRICS_PORT"`
	AllowedOrigins          string        `mapstructure:"ALLOWED_ORIGINS"`
	RequestTimeout          time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	StoreDriver             string        `mapstructure:"STORE_DRIVER"`
	UserStore               string        `mapstructure:"USER_STORE"`
	MongoURI                string        `mapstructure:"MONGO_URI"`
	MongoDatabase           string        `mapstructure:"MONGO_DATABASE"`
	PostgresUrl             string        `mapstructure:"POSTGRES_URL"`
	RedisURL                string        `mapstructure:"REDIS_URL"`
	CommentCountTTL         time.Duration `mapstructure:"COMMENT_COUNT_TTL"`
	FirebaseCredentialsPath string        `mapstructure:"FIREBASE_CREDENTIALS_PATH"`
}

var defaults = map[string]interface{}{
	"PORT":                      "8080",
	"ENV":                       "development",
	"LOG_LEVEL":                 "info",
	"METRICS_PORT":              "9090",
	"ALLOWED_ORIGINS":           "*",
	"REQUEST_TIMEOUT":           "15s",
	"STORE_DRIVER":              DriverMongo,
	"USER_STORE":                DriverMongo,
	"MONGO_URI":                 "mongodb://localhost:27017",
	"MONGO_DATABASE":            "socialmedia",
	"POSTGRES_URL":              "",
	"REDIS_URL":                 "",
	"COMMENT_COUNT_TTL":         "1m",
	"FIREBASE_CREDENTIALS_PATH": "",
}

// Load reads an optional .env file, then the environment, over the defaults.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks driver names and the settings each driver needs.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required when STORE_DRIVER=mongo")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.UserStore {
	case DriverMongo:
		if c.StoreDriver == DriverMemory {
			// users follow the rest of the data into memory
			c.UserStore = DriverMemory
		}
	case DriverPostgres:
		if c.PostgresUrl == "" {
			return errors.New("POSTGRES_URL is required when USER_STORE=postgres")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown USER_STORE %q", c.UserStore)
	}
	if c.RequestTimeout < 0 || c.CommentCountTTL < 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}
