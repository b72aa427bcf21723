package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_DefaultValues(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "test-secret-key-0123456789")
	t.Setenv("ADMIN_JWT_EXPIRATION_HOURS", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "test-secret-key-0123456789", cfg.Secret)
	assert.Equal(t, "landing-site", cfg.Issuer)
	assert.Equal(t, 24, cfg.ExpirationHours, "should use default expiration of 24 hours")
}

func TestNewJWTConfig_CustomExpiration(t *testing.T) {
	tests := []struct {
		name          string
		expiration    string
		expectedHours int
		wantErr       bool
	}{
		{name: "one hour", expiration: "1", expectedHours: 1},
		{name: "one week", expiration: "168", expectedHours: 168},
		{name: "zero", expiration: "0", wantErr: true},
		{name: "negative", expiration: "-5", wantErr: true},
		{name: "not a number", expiration: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ADMIN_JWT_SECRET", "test-secret-key-0123456789")
			t.Setenv("ADMIN_JWT_EXPIRATION_HOURS", tt.expiration)

			cfg, err := NewJWTConfig()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedHours, cfg.ExpirationHours)
		})
	}
}

func TestNewJWTConfig_MissingSecret(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "")

	cfg, err := NewJWTConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "ADMIN_JWT_SECRET is required")
}

func TestNewJWTConfig_ShortSecret(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "short")

	_, err := NewJWTConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least 16 characters")
}
