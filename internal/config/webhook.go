package config

import (
	"fmt"
	"time"
)

// DefaultSecretHeader is the header carrying the shared webhook secret.
const DefaultSecretHeader = "x-contentful-webhook-secret"

// WebhookConfig holds the configuration of the revalidation webhook.
type WebhookConfig struct {
	Secret          string
	SecretHeader    string
	Endpoint        string // Remote revalidation endpoint; empty keeps invalidation local
	EndpointToken   string
	SecondPassDelay time.Duration
	RetryDelay      time.Duration
	PriorityRetries int
	Retries         int
}

// NewWebhookConfig creates the webhook configuration from environment variables.
// REVALIDATE_SECRET may be empty: the endpoint then reports a server misconfiguration.
func NewWebhookConfig() (*WebhookConfig, error) {
	secondPass, err := getEnvDuration("REVALIDATE_DELAY", 2*time.Second)
	if err != nil {
		return nil, err
	}
	retryDelay, err := getEnvDuration("REVALIDATE_RETRY_DELAY", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}
	priorityRetries, err := getEnvInt("REVALIDATE_PRIORITY_RETRIES", 3)
	if err != nil {
		return nil, err
	}
	retries, err := getEnvInt("REVALIDATE_RETRIES", 2)
	if err != nil {
		return nil, err
	}

	config := &WebhookConfig{
		Secret:          getEnvString("REVALIDATE_SECRET", ""),
		SecretHeader:    getEnvString("REVALIDATE_SECRET_HEADER", DefaultSecretHeader),
		Endpoint:        getEnvString("REVALIDATE_ENDPOINT", ""),
		EndpointToken:   getEnvString("REVALIDATE_ENDPOINT_TOKEN", ""),
		SecondPassDelay: secondPass,
		RetryDelay:      retryDelay,
		PriorityRetries: priorityRetries,
		Retries:         retries,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *WebhookConfig) normalize() error {
	if c.PriorityRetries < 0 || c.Retries < 0 {
		return fmt.Errorf("revalidation retries must be non-negative")
	}
	if c.RetryDelay < 0 || c.SecondPassDelay < 0 {
		return fmt.Errorf("revalidation delays must be non-negative")
	}
	if c.SecretHeader == "" {
		c.SecretHeader = DefaultSecretHeader
	}
	return nil
}

// Configured reports whether a webhook secret is set.
func (c *WebhookConfig) Configured() bool {
	return c != nil && c.Secret != ""
}
