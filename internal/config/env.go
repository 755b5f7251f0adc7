package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envOverrides lists the environment variables that take precedence over
// the config file. Zero values leave the file setting untouched.
type envOverrides struct {
	Sims         int     `env:"FBSIM_SIMS"`
	Workers      int     `env:"FBSIM_WORKERS"`
	Seed         *uint64 `env:"FBSIM_SEED"`
	Currency     string  `env:"FBSIM_CURRENCY"`
	LogLevel     string  `env:"FBSIM_LOG_LEVEL"`
	CacheBackend string  `env:"FBSIM_CACHE_BACKEND"`
	RedisAddr    string  `env:"FBSIM_REDIS_ADDR"`
	ServerAddr   string  `env:"FBSIM_ADDR"`
	AdvisorModel string  `env:"FBSIM_ADVISOR_MODEL"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ApplyEnv overlays FBSIM_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	var o envOverrides
	if err := ParseEnv(&o); err != nil {
		return err
	}

	if o.Sims != 0 {
		cfg.General.Sims = o.Sims
	}
	if o.Workers != 0 {
		cfg.General.Workers = o.Workers
	}
	if o.Seed != nil {
		cfg.General.Seed = o.Seed
	}
	if o.Currency != "" {
		cfg.General.Currency = o.Currency
	}
	if o.LogLevel != "" {
		cfg.General.LogLevel = o.LogLevel
	}
	if o.CacheBackend != "" {
		cfg.Cache.Backend = o.CacheBackend
	}
	if o.RedisAddr != "" {
		cfg.Cache.RedisAddr = o.RedisAddr
	}
	if o.ServerAddr != "" {
		cfg.Server.Addr = o.ServerAddr
	}
	if o.AdvisorModel != "" {
		cfg.Advisor.Model = o.AdvisorModel
	}
	return nil
}
