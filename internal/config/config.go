// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type APIConfig struct {
	Port         int    `yaml:"port"`
	CallbackPath string `yaml:"callback_path"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// SnappPayConfig holds provider credentials and endpoints. Immutable for the
// lifetime of a gateway instance.
type SnappPayConfig struct {
	BaseURL      string `yaml:"base_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	CallbackURL  string `yaml:"callback_url"`
	Currency     string `yaml:"currency"` // IRR | IRT
}

type PaymentConfig struct {
	SnappPay SnappPayConfig `yaml:"snapppay"`
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	API      APIConfig      `yaml:"api"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Payment  PaymentConfig  `yaml:"payment"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.API.Port <= 0 {
		cfg.API.Port = 8080
	}
	if cfg.API.CallbackPath == "" {
		cfg.API.CallbackPath = "/api/v1/payment/callback"
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Payment.SnappPay.Currency == "" {
		cfg.Payment.SnappPay.Currency = "IRT"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// validate rejects missing required fields up front so the gateway never
// fails lazily mid-request over a configuration hole.
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if c.Redis.URL == "" {
		return errors.New("redis.url is required")
	}
	sp := c.Payment.SnappPay
	switch {
	case sp.BaseURL == "":
		return errors.New("payment.snapppay.base_url is required")
	case sp.ClientID == "":
		return errors.New("payment.snapppay.client_id is required")
	case sp.ClientSecret == "":
		return errors.New("payment.snapppay.client_secret is required")
	case sp.Username == "":
		return errors.New("payment.snapppay.username is required")
	case sp.Password == "":
		return errors.New("payment.snapppay.password is required")
	case sp.CallbackURL == "":
		return errors.New("payment.snapppay.callback_url is required")
	}
	if sp.Currency != "IRR" && sp.Currency != "IRT" {
		return fmt.Errorf("payment.snapppay.currency must be IRR or IRT, got %q", sp.Currency)
	}
	return nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
