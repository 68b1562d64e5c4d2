// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection (local mirror of remote content)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Remote publishing platform
	SiteURL      string // base URL of the remote site's REST API
	SiteTitle    string
	SiteAPIToken string // bearer token sent with remote calls

	// Local API protection: bcrypt hash of the token editor clients must
	// present. Empty disables auth (development only).
	APITokenHash string

	// Sync cadence
	SyncFreshness    time.Duration // how long an unforced list sync stays fresh
	HousekeepingCron string        // cron expression for background housekeeping
	SyncPageSize     int
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "127.0.0.1"),
		Port: envOrDefault("APP_PORT", "8654"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "pressdesk"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "pressdesk"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		SiteURL:      os.Getenv("SITE_URL"),
		SiteTitle:    envOrDefault("SITE_TITLE", "My Site"),
		SiteAPIToken: os.Getenv("SITE_API_TOKEN"),

		APITokenHash: os.Getenv("API_TOKEN_HASH"),

		HousekeepingCron: envOrDefault("HOUSEKEEPING_CRON", "*/15 * * * *"),
		SyncPageSize:     100,
	}

	freshness, err := time.ParseDuration(envOrDefault("SYNC_FRESHNESS", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_FRESHNESS: %w", err)
	}
	cfg.SyncFreshness = freshness

	if cfg.Env == "production" {
		if cfg.SiteURL == "" {
			return nil, fmt.Errorf("SITE_URL must be set in production")
		}
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.APITokenHash == "" {
			return nil, fmt.Errorf("API_TOKEN_HASH must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
