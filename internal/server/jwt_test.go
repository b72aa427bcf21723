package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/landing-site/internal/config"
	"github.com/jonathan/landing-site/internal/server/middleware"
)

var (
	_ jwt.Claims                = (*Claims)(nil)
	_ middleware.OperatorClaims = (*Claims)(nil)
)

func TestClaims_RegisteredSubject(t *testing.T) {
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "ops@example.com"}}

	subject, err := claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", subject)
	assert.Equal(t, subject, claims.Operator())
}

func setupTestJWTService(_ *testing.T, expirationHours int) *JWTService {
	cfg := &config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-minimum-32-bytes",
		Issuer:          "landing-site",
		ExpirationHours: expirationHours,
	}
	return NewJWTService(cfg)
}

func TestJWTService_GenerateToken(t *testing.T) {
	service := setupTestJWTService(t, 24)

	token, err := service.GenerateToken("ops@example.com")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3, "JWT should have 3 parts separated by dots")

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Operator())
	assert.Equal(t, "landing-site", claims.Issuer)
	assert.Equal(t, adminScope, claims.Scope)
	assert.NotEmpty(t, claims.ID)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestJWTService_GenerateToken_EmptySubject(t *testing.T) {
	service := setupTestJWTService(t, 24)
	_, err := service.GenerateToken("")
	assert.Error(t, err)
}

func TestJWTService_GenerateToken_UniqueTokens(t *testing.T) {
	service := setupTestJWTService(t, 24)

	token1, err := service.GenerateToken("ci")
	require.NoError(t, err)
	token2, err := service.GenerateToken("ci")
	require.NoError(t, err)

	assert.NotEqual(t, token1, token2, "every token carries its own id")
}

func TestJWTService_ValidateToken_InvalidSignature(t *testing.T) {
	service1 := setupTestJWTService(t, 24)
	service2 := setupTestJWTService(t, 24)
	service2.config.Secret = "different-secret-key-for-jwt-signing-minimum-32-bytes"

	token, err := service1.GenerateToken("ops")
	require.NoError(t, err)

	claims, err := service2.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.Contains(t, err.Error(), "signature")
}

func TestJWTService_ValidateToken_WrongIssuer(t *testing.T) {
	issuer := setupTestJWTService(t, 24)
	issuer.config.Issuer = "someone-else"
	token, err := issuer.GenerateToken("ops")
	require.NoError(t, err)

	_, err = setupTestJWTService(t, 24).ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_ValidateToken_WrongScope(t *testing.T) {
	service := setupTestJWTService(t, 24)
	now := time.Now()
	claims := &Claims{
		Scope: "read",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ops",
			Issuer:    "landing-site",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(service.config.Secret))
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scope")
}

func TestJWTService_ValidateToken_Malformed(t *testing.T) {
	service := setupTestJWTService(t, 24)

	for _, token := range []string{"", "invalid", "invalid.token", "invalid.token.format.extra", "invalid.base64.signature"} {
		t.Run(token, func(t *testing.T) {
			claims, err := service.ValidateToken(token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTService_TokenExpiration(t *testing.T) {
	service := setupTestJWTService(t, 1)
	issued := time.Now()
	service.now = func() time.Time { return issued }

	token, err := service.GenerateToken("ops")
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	require.NoError(t, err)

	service.now = func() time.Time { return issued.Add(2 * time.Hour) }
	claims, err := service.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.Contains(t, err.Error(), "expired")
}
