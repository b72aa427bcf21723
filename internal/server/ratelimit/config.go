package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultMaxBuckets bounds the number of client buckets held at once.
	DefaultMaxBuckets = 10000
	// DefaultIdleTTL is how long an unused bucket is kept.
	DefaultIdleTTL = time.Hour
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// key names the endpoint class; every path matched by a prefix rule shares one bucket.
func (e *EndpointConfig) key() string {
	if e.Path == "" {
		return "default"
	}
	return e.Method + " " + e.Path
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	MaxBuckets      int
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{
			Enabled: false,
		}
	}

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		MaxBuckets:      getEnvInt("RATE_LIMIT_MAX_BUCKETS", DefaultMaxBuckets),
		IdleTTL:         getEnvDuration("RATE_LIMIT_IDLE_TTL", DefaultIdleTTL),
		Whitelist:       parseIPList(getEnvString("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(getEnvString("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Outbound calls to payment and coupon providers
		{Path: "/api/process-payment", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/api/coupon", Method: "GET", Limit: 30, Window: time.Minute, Burst: 5},

		// Revalidation fans out to every resolved path
		{Path: "/api/revalidate", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/admin/", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},

		// Pages and site artifacts use the default limit; /health is unlimited
	}
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
