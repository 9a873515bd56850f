package db

import "time"

// Config holds PostgreSQL pool settings, read from the "database" config section.
type Config struct {
	URL             string        `mapstructure:"url"`
	MigrationsTable string        `mapstructure:"migrations-table"`
	RetryInterval   time.Duration `mapstructure:"retry-interval"`
	HealthCheck     time.Duration `mapstructure:"health-check-period"`
	MaxConnIdleTime time.Duration `mapstructure:"max-conn-idle-time"`
	MaxConnLifetime time.Duration `mapstructure:"max-conn-lifetime"`
	RetryAttempts   int           `mapstructure:"retry-attempts"`
	MaxConns        int32         `mapstructure:"max-conns"`
	MinConns        int32         `mapstructure:"min-conns"`
}

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	if c.MigrationsTable == "" {
		c.MigrationsTable = "schema_migrations"
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = 2 * time.Second
	}
	if c.HealthCheck <= 0 {
		c.HealthCheck = time.Minute
	}
	if c.MaxConnIdleTime <= 0 {
		c.MaxConnIdleTime = 10 * time.Minute
	}
	if c.MaxConnLifetime <= 0 {
		c.MaxConnLifetime = 30 * time.Minute
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = 3
	}
	if c.MaxConns <= 0 {
		c.MaxConns = 10
	}
	if c.MinConns < 0 || c.MinConns > c.MaxConns {
		c.MinConns = 0
	}
	return c
}
