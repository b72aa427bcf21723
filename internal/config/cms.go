package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMissingCredentials is returned when the CMS space or token is not configured.
var ErrMissingCredentials = errors.New("CONTENTFUL_SPACE_ID and CONTENTFUL_ACCESS_TOKEN are required but not set")

// CMSConfig holds the credentials and endpoint of the content delivery API.
type CMSConfig struct {
	SpaceID     string
	AccessToken string
	Environment string
	Host        string
	Timeout     time.Duration
}

// NewCMSConfig creates a CMS configuration from environment variables.
// It reads CONTENTFUL_SPACE_ID and CONTENTFUL_ACCESS_TOKEN (required), CONTENTFUL_ENVIRONMENT
// (default: master), CONTENTFUL_HOST (default: cdn.contentful.com) and CONTENTFUL_TIMEOUT
// (default: 10s).
func NewCMSConfig() (*CMSConfig, error) {
	timeout, err := getEnvDuration("CONTENTFUL_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	config := &CMSConfig{
		SpaceID:     getEnvString("CONTENTFUL_SPACE_ID", ""),
		AccessToken: getEnvString("CONTENTFUL_ACCESS_TOKEN", ""),
		Environment: getEnvString("CONTENTFUL_ENVIRONMENT", "master"),
		Host:        getEnvString("CONTENTFUL_HOST", "cdn.contentful.com"),
		Timeout:     timeout,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *CMSConfig) normalize() error {
	if c.SpaceID == "" || c.AccessToken == "" {
		return ErrMissingCredentials
	}
	if c.Environment == "" {
		c.Environment = "master"
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("CONTENTFUL_TIMEOUT must be positive, got: %s", c.Timeout)
	}
	return nil
}

// BaseURL returns the environment root of the delivery API. A host that already carries
// a scheme is used as-is.
func (c *CMSConfig) BaseURL() string {
	host := strings.TrimRight(c.Host, "/")
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return fmt.Sprintf("%s/spaces/%s/environments/%s", host, c.SpaceID, c.Environment)
}
