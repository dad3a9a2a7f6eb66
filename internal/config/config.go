// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"guialocal/internal/moderation"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	Timezone string // IANA name used for opening-hours evaluation

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int

	// Idle lifetime of a signed-in session.
	SessionTTL time.Duration

	// Moderation status given to listings created by clients.
	ClientModeration moderation.Status

	// How often the open-now index is rebuilt. Capped at one minute.
	OpenNowInterval time.Duration

	// Front-end origins allowed to call the API from a browser.
	CORSOrigins []string

	// S3-compatible object storage for listing photos. Uploads are
	// disabled when the endpoint or keys are empty.
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	location *time.Location
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory,
// when present, is loaded first and never overrides variables already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Host:     envOrDefault("APP_HOST", "0.0.0.0"),
		Port:     envOrDefault("APP_PORT", "8080"),
		Env:      envOrDefault("APP_ENV", "development"),
		Timezone: envOrDefault("APP_TIMEZONE", "America/Sao_Paulo"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "guialocal"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "guialocal"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		ClientModeration: moderation.Status(envOrDefault("CLIENT_LISTING_MODERATION", string(moderation.Pending))),

		CORSOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "guialocal-photos"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),
	}

	db, err := strconv.Atoi(envOrDefault("VALKEY_DB", "0"))
	if err != nil || db < 0 || db > 15 {
		return nil, fmt.Errorf("VALKEY_DB must be a number between 0 and 15")
	}
	cfg.ValkeyDB = db

	ttl, err := time.ParseDuration(envOrDefault("SESSION_TTL", "24h"))
	if err != nil || ttl < time.Minute {
		return nil, fmt.Errorf("SESSION_TTL must be a duration of at least 1m")
	}
	cfg.SessionTTL = ttl

	interval, err := time.ParseDuration(envOrDefault("OPEN_NOW_INTERVAL", "1m"))
	if err != nil || interval <= 0 {
		return nil, fmt.Errorf("OPEN_NOW_INTERVAL must be a positive duration")
	}
	if interval > time.Minute {
		interval = time.Minute
	}
	cfg.OpenNowInterval = interval

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc

	if !cfg.ClientModeration.Valid() {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("CLIENT_LISTING_MODERATION must be one of %v", moderation.Statuses)
		}
		cfg.ClientModeration = moderation.Pending
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
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

// Location returns the platform time zone. A Config built by hand without
// Load falls back to UTC.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
