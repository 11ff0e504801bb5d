// Package config loads server tunables from an embedded JSON default,
// overridable per-field by environment variables: listen address,
// WebSocket path, and per-client rate limiting.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config is the fully-resolved set of runtime tunables.
type Config struct {
	Server    ServerConfig
	RateLimit RateLimitConfig
}

// ServerConfig controls the transport listener.
type ServerConfig struct {
	Host        string
	Port        int
	WSPath      string
	MetricsPort int
}

// RateLimitConfig bounds how many messages per second a single client
// address may send before its excess datagrams are dropped, enforced with
// golang.org/x/time/rate.
type RateLimitConfig struct {
	MessagesPerSecond int
	Burst             int
}

// jsonConfig is the shape of gameConfig.json.
type jsonConfig struct {
	Server struct {
		Host        string `json:"host"`
		Port        int    `json:"port"`
		WSPath      string `json:"wsPath"`
		MetricsPort int    `json:"metricsPort"`
	} `json:"server"`
	RateLimit struct {
		MessagesPerSecond int `json:"messagesPerSecond"`
		Burst             int `json:"burst"`
	} `json:"rateLimit"`
}

// Load resolves Config from the embedded default, with every field
// overridable by its corresponding environment variable.
func Load() *Config {
	defaults, err := loadEmbeddedConfig()
	if err != nil {
		// The embedded file is compiled into the binary; a parse failure
		// here means the binary itself is broken, not a runtime condition
		// callers can recover from.
		fmt.Fprintf(os.Stderr, "config: embedded gameConfig.json is invalid: %v\n", err)
		os.Exit(1)
	}

	return &Config{
		Server: ServerConfig{
			Host:        getEnvString("NUGGETS_HOST", defaults.Server.Host),
			Port:        getEnvInt("NUGGETS_PORT", defaults.Server.Port),
			WSPath:      getEnvString("NUGGETS_WS_PATH", defaults.Server.WSPath),
			MetricsPort: getEnvInt("NUGGETS_METRICS_PORT", defaults.Server.MetricsPort),
		},
		RateLimit: RateLimitConfig{
			MessagesPerSecond: getEnvInt("NUGGETS_RATE_LIMIT_MSG_SEC", defaults.RateLimit.MessagesPerSecond),
			Burst:             getEnvInt("NUGGETS_RATE_LIMIT_BURST", defaults.RateLimit.Burst),
		},
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
