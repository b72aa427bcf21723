package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// SiteConfig holds site-wide settings used by rendering and SEO artifacts.
type SiteConfig struct {
	Domain    string
	Name      string
	Locale    string
	PageTTL   time.Duration
	CacheSize int

	// SupportEmail is shown on error pages when set.
	SupportEmail string
}

// NewSiteConfig creates the site configuration from environment variables.
// It reads SITE_DOMAIN (default: http://localhost:3000), SITE_NAME (default: GoLean),
// DEFAULT_LOCALE (default: en-US), PAGE_TTL (default: 120s), PAGE_CACHE_SIZE (default: 512)
// and SUPPORT_EMAIL (optional).
func NewSiteConfig() (*SiteConfig, error) {
	ttl, err := getEnvDuration("PAGE_TTL", 120*time.Second)
	if err != nil {
		return nil, err
	}
	size, err := getEnvInt("PAGE_CACHE_SIZE", 512)
	if err != nil {
		return nil, err
	}

	config := &SiteConfig{
		Domain:    getEnvString("SITE_DOMAIN", "http://localhost:3000"),
		Name:      getEnvString("SITE_NAME", "GoLean"),
		Locale:    getEnvString("DEFAULT_LOCALE", "en-US"),
		PageTTL:   ttl,
		CacheSize: size,

		SupportEmail: getEnvString("SUPPORT_EMAIL", ""),
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *SiteConfig) normalize() error {
	c.Domain = strings.TrimRight(c.Domain, "/")
	u, err := url.Parse(c.Domain)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("SITE_DOMAIN must be an absolute URL, got: %q", c.Domain)
	}
	if c.PageTTL <= 0 {
		return fmt.Errorf("PAGE_TTL must be positive, got: %s", c.PageTTL)
	}
	if c.CacheSize < 1 {
		return fmt.Errorf("PAGE_CACHE_SIZE must be at least 1, got: %d", c.CacheSize)
	}
	return nil
}

// Apply overrides environment values with non-empty file configuration values.
func (c *SiteConfig) Apply(file Config) error {
	if file.Domain != "" {
		c.Domain = file.Domain
	}
	if file.SiteName != "" {
		c.Name = file.SiteName
	}
	if file.Locale != "" {
		c.Locale = file.Locale
	}
	if file.CacheSize > 0 {
		c.CacheSize = file.CacheSize
	}
	return c.normalize()
}

// PaymentConfig bounds outbound payment and coupon calls.
type PaymentConfig struct {
	Timeout time.Duration
}

// NewPaymentConfig reads PAYMENT_TIMEOUT (default: 8s).
func NewPaymentConfig() (*PaymentConfig, error) {
	timeout, err := getEnvDuration("PAYMENT_TIMEOUT", 8*time.Second)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("PAYMENT_TIMEOUT must be positive, got: %s", timeout)
	}
	return &PaymentConfig{Timeout: timeout}, nil
}
