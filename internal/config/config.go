// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from environment
// variables with the SITECMS_ prefix.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must never
// reach production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// MinSessionSecretLength is the minimum session secret length. HMAC
// keys shorter than the hash block provide less than the advertised
// security margin.
const MinSessionSecretLength = 32

// Config holds the application configuration.
type Config struct {
	DBPath        string `env:"SITECMS_DB_PATH" envDefault:"./data/sitecms.db"`
	SessionSecret string `env:"SITECMS_SESSION_SECRET,required"`
	CSRFSecret    string `env:"SITECMS_CSRF_SECRET"`
	ServerHost    string `env:"SITECMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"SITECMS_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"SITECMS_ENV" envDefault:"development"`
	LogLevel      string `env:"SITECMS_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"SITECMS_UPLOADS_DIR" envDefault:"./uploads"`
	SiteURL       string `env:"SITECMS_SITE_URL" envDefault:"http://localhost:8080"`

	// Cache configuration. An empty RedisURL means in-process caching.
	RedisURL    string `env:"SITECMS_REDIS_URL"`
	CachePrefix string `env:"SITECMS_CACHE_PREFIX" envDefault:"sitecms:"`
	CacheTTL    int    `env:"SITECMS_CACHE_TTL" envDefault:"300"`

	// TrustedOrigins are extra origins accepted by CSRF protection,
	// comma separated.
	TrustedOrigins []string `env:"SITECMS_TRUSTED_ORIGINS" envSeparator:","`
}

// IsDevelopment reports whether the application runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the listen address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache reports whether Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// SlogLevel maps the LogLevel string to a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load parses environment variables and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("SITECMS_SESSION_SECRET must be at least %d bytes long, got %d; "+
			"generate one with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("SITECMS_SESSION_SECRET is a known default value and must not be used; " +
				"generate one with: openssl rand -base64 32")
		}
	}
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("SITECMS_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret spans at least 3 character
// classes.
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
