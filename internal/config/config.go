// Package config loads server configuration from config.yaml and
// ASCEND_-prefixed environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all server configuration.
type Config struct {
	ServerAddr     string        `mapstructure:"SERVER_ADDR"`
	GinMode        string        `mapstructure:"GIN_MODE"`
	LogMode        string        `mapstructure:"LOG_MODE"`
	DatabasePath   string        `mapstructure:"DATABASE_PATH"`
	JWTSigningKey  string        `mapstructure:"JWT_SIGNING_KEY"`
	JWTIssuer      string        `mapstructure:"JWT_ISSUER"`
	BankPath       string        `mapstructure:"BANK_PATH"`
	ConfigCacheTTL time.Duration `mapstructure:"CONFIG_CACHE_TTL"`
	PracticeTarget int           `mapstructure:"PRACTICE_TARGET"`
	AllowedOrigins []string      `mapstructure:"ALLOWED_ORIGINS"`
}

// Load reads config.yaml (when present) and applies environment overrides
// such as ASCEND_SERVER_ADDR.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("SERVER_ADDR", ":8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("LOG_MODE", "production")
	v.SetDefault("DATABASE_PATH", "")
	v.SetDefault("JWT_SIGNING_KEY", "")
	v.SetDefault("JWT_ISSUER", "ascend")
	v.SetDefault("BANK_PATH", "")
	v.SetDefault("CONFIG_CACHE_TTL", "5m")
	v.SetDefault("PRACTICE_TARGET", 15)
	v.SetDefault("ALLOWED_ORIGINS", []string{"*"})

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("ASCEND")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// ValidateForServe checks the settings the HTTP server cannot run without.
func (c *Config) ValidateForServe() error {
	if c.JWTSigningKey == "" {
		return fmt.Errorf("ASCEND_JWT_SIGNING_KEY must be set")
	}
	return nil
}
