// Package config loads the immutable service configuration from the
// environment, built once at process start and passed explicitly to the
// components that need it.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Credential store drivers
const (
	DriverFile   = "file"
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)

// Config carries all configuration values
type Config struct {
	Server  ServerConfig
	Strava  StravaConfig
	Tokens  TokensConfig
	Display DisplayConfig
}

// ServerConfig - HTTP listener settings
type ServerConfig struct {
	Host string
	Port int
}

// Addr returns the host:port listen address
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// StravaConfig - OAuth application credentials for the platform
type StravaConfig struct {
	ClientID     int
	ClientSecret string
	CallbackURL  string
}

// TokensConfig - credential store settings.
// Secret, when set, enables at-rest encryption of stored tokens.
type TokensConfig struct {
	Driver string
	Path   string
	Secret string
}

// DisplayConfig - presentation settings
type DisplayConfig struct {
	// Timezone in which day and week boundaries are computed
	Timezone string
}

// Load builds Config from environment variables. A .env file, when
// present, is loaded first; in production the real environment is used.
func Load() (*Config, error) {
	_ = godotenv.Load()

	clientIDRaw := os.Getenv("STRAVA_CLIENT_ID")
	if clientIDRaw == "" {
		return nil, fmt.Errorf("STRAVA_CLIENT_ID is required")
	}
	clientID, err := strconv.Atoi(clientIDRaw)
	if err != nil {
		return nil, fmt.Errorf("STRAVA_CLIENT_ID must be a number: %w", err)
	}

	clientSecret := os.Getenv("STRAVA_CLIENT_SECRET")
	if clientSecret == "" {
		return nil, fmt.Errorf("STRAVA_CLIENT_SECRET is required")
	}

	port, err := strconv.Atoi(getEnv("PORT", "8000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	driver := getEnv("TOKENS_DRIVER", DriverFile)
	switch driver {
	case DriverFile, DriverBolt, DriverSQLite:
	default:
		return nil, fmt.Errorf("invalid TOKENS_DRIVER %q: must be %s, %s or %s",
			driver, DriverFile, DriverBolt, DriverSQLite)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("HOST", "127.0.0.1"),
			Port: port,
		},
		Strava: StravaConfig{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			CallbackURL:  getEnv("CALLBACK_URL", "http://localhost:8000/strava/callback"),
		},
		Tokens: TokensConfig{
			Driver: driver,
			Path:   getEnv("TOKENS_PATH", "state/credentials.json"),
			Secret: os.Getenv("TOKENS_SECRET"),
		},
		Display: DisplayConfig{
			Timezone: getEnv("TIMEZONE", "UTC"),
		},
	}, nil
}

// getEnv returns the value of key, or fallback when unset or empty
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
