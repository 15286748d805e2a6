// Package config loads the server configuration from .env and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "change-me-in-production"

// Config holds every setting the server reads at startup.
type Config struct {
	Port              string        `mapstructure:"PORT"`
	MongoURI          string        `mapstructure:"MONGO_URI"`
	MongoDatabase     string        `mapstructure:"MONGO_DB"`
	MongoTransactions bool          `mapstructure:"MONGO_TRANSACTIONS"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	TokenExpiry       time.Duration `mapstructure:"TOKEN_EXPIRY"`
	Env               string        `mapstructure:"APP_ENV"`
	AllowedOrigins    string        `mapstructure:"ALLOWED_ORIGINS"`
	RedisURL          string        `mapstructure:"REDIS_URL"`
	AuthRateLimit     int           `mapstructure:"AUTH_RATE_LIMIT"`
	AuthRateWindow    time.Duration `mapstructure:"AUTH_RATE_WINDOW"`
	TrustProxy        bool          `mapstructure:"TRUST_PROXY"`
	StreamAPIKey      string        `mapstructure:"STREAM_API_KEY"`
	StreamAPISecret   string        `mapstructure:"STREAM_API_SECRET"`
	ReconcileSchedule string        `mapstructure:"RECONCILE_SCHEDULE"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
}

// LoadConfig reads .env (if present), applies defaults and validates the result.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using process environment")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	// AutomaticEnv only resolves keys viper already knows about, so every
	// field has to be bound before Unmarshal.
	for _, key := range []string{
		"PORT", "MONGO_URI", "MONGO_DB", "MONGO_TRANSACTIONS", "JWT_SECRET",
		"TOKEN_EXPIRY", "APP_ENV", "ALLOWED_ORIGINS", "REDIS_URL",
		"AUTH_RATE_LIMIT", "AUTH_RATE_WINDOW", "TRUST_PROXY", "STREAM_API_KEY",
		"STREAM_API_SECRET", "RECONCILE_SCHEDULE", "LOG_LEVEL",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5001")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "language_exchange")
	v.SetDefault("MONGO_TRANSACTIONS", false)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("TOKEN_EXPIRY", 7*24*time.Hour)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("AUTH_RATE_LIMIT", 20)
	v.SetDefault("AUTH_RATE_WINDOW", time.Minute)
	v.SetDefault("TRUST_PROXY", false)
	v.SetDefault("STREAM_API_KEY", "")
	v.SetDefault("STREAM_API_SECRET", "")
	v.SetDefault("RECONCILE_SCHEDULE", "@every 10m")
	v.SetDefault("LOG_LEVEL", "info")
}

// Validate checks required values and production hardening rules.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.MongoURI == "" {
		return errors.New("MONGO_URI is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.TokenExpiry <= 0 {
		return errors.New("TOKEN_EXPIRY must be positive")
	}

	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
	} else if len(c.JWTSecret) < 32 {
		logrus.Warn("JWT_SECRET is shorter than 32 characters")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
