// Package config содержит логику чтения конфигурации сервиса доставки баллонов.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultRunAddress       = "localhost:8080"
	defaultJWTTTL           = 12 * time.Hour
	defaultDatabaseMaxConns = 10
)

// Config содержит параметры конфигурации сервиса.
type Config struct {
	RunAddress       string        `env:"RUN_ADDRESS"`
	DatabaseURI      string        `env:"DATABASE_URI"`
	JWTSecret        string        `env:"JWT_SECRET"`
	JWTTTL           time.Duration `env:"JWT_TTL"`
	DatabaseMaxConns int           `env:"DATABASE_MAX_CONNS"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envCfg := *cfg

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.JWTSecret, "s", "", "secret for signing access tokens")
	flag.DurationVar(&cfg.JWTTTL, "t", defaultJWTTTL, "access token lifetime")
	flag.IntVar(&cfg.DatabaseMaxConns, "m", defaultDatabaseMaxConns, "max database connections")

	flag.Parse()

	if envCfg.RunAddress != "" {
		cfg.RunAddress = envCfg.RunAddress
	}
	if envCfg.DatabaseURI != "" {
		cfg.DatabaseURI = envCfg.DatabaseURI
	}
	if envCfg.JWTSecret != "" {
		cfg.JWTSecret = envCfg.JWTSecret
	}
	if envCfg.JWTTTL != 0 {
		cfg.JWTTTL = envCfg.JWTTTL
	}
	if envCfg.DatabaseMaxConns != 0 {
		cfg.DatabaseMaxConns = envCfg.DatabaseMaxConns
	}

	cfg.applyDefaults()
	return cfg, cfg.validate()
}

// FromEnv считывает конфигурацию только из переменных окружения.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.applyDefaults()
	return cfg, cfg.validate()
}

func (c *Config) applyDefaults() {
	if c.RunAddress == "" {
		c.RunAddress = defaultRunAddress
	}
	if c.JWTTTL == 0 {
		c.JWTTTL = defaultJWTTTL
	}
	if c.DatabaseMaxConns == 0 {
		c.DatabaseMaxConns = defaultDatabaseMaxConns
	}
}

func (c *Config) validate() error {
	if c.JWTTTL < 0 {
		return fmt.Errorf("jwt ttl must be positive, got %s", c.JWTTTL)
	}
	if c.DatabaseMaxConns < 0 {
		return fmt.Errorf("database max conns must be positive, got %d", c.DatabaseMaxConns)
	}
	return nil
}
