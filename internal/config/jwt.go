package config

import (
	"fmt"
)

// JWTConfig holds configuration for admin API token generation and validation.
type JWTConfig struct {
	Secret          string
	Issuer          string
	ExpirationHours int
}

// NewJWTConfig creates a new JWT configuration from environment variables.
// It reads ADMIN_JWT_SECRET (required), ADMIN_JWT_ISSUER (default: landing-site) and
// ADMIN_JWT_EXPIRATION_HOURS (default: 24).
func NewJWTConfig() (*JWTConfig, error) {
	secret := getEnvString("ADMIN_JWT_SECRET", "")
	if secret == "" {
		return nil, fmt.Errorf("ADMIN_JWT_SECRET is required but not set")
	}

	expirationHours, err := getEnvInt("ADMIN_JWT_EXPIRATION_HOURS", 24)
	if err != nil {
		return nil, err
	}

	config := &JWTConfig{
		Secret:          secret,
		Issuer:          getEnvString("ADMIN_JWT_ISSUER", "landing-site"),
		ExpirationHours: expirationHours,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("ADMIN_JWT_SECRET cannot be empty")
	}
	if len(c.Secret) < 16 {
		return fmt.Errorf("ADMIN_JWT_SECRET must be at least 16 characters")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("ADMIN_JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
