package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jonathan/landing-site/internal/config"
	"github.com/jonathan/landing-site/internal/server/middleware"
)

// adminScope is the only scope the admin API accepts.
const adminScope = "revalidate"

// Claims are the claims of an admin API token.
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Operator returns the subject the token was issued to.
// This implements the middleware.OperatorClaims interface.
func (c *Claims) Operator() string {
	return c.Subject
}

// AsTokenValidator returns a TokenValidator adapter for this JWTService.
// This allows the JWTService to be used with middleware without creating import cycles.
func (s *JWTService) AsTokenValidator() middleware.TokenValidator {
	return &jwtServiceValidator{service: s}
}

// jwtServiceValidator adapts JWTService to middleware.TokenValidator interface.
type jwtServiceValidator struct {
	service *JWTService
}

func (v *jwtServiceValidator) ValidateToken(tokenString string) (middleware.OperatorClaims, error) {
	claims, err := v.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// JWTService issues and validates admin API tokens.
type JWTService struct {
	config *config.JWTConfig
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given configuration.
func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{
		config: cfg,
		now:    time.Now,
	}
}

// GenerateToken issues a token for subject, typically the operator's email or a CI job name.
func (s *JWTService) GenerateToken(subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("token subject is empty")
	}
	now := s.now()
	expiresAt := now.Add(time.Duration(s.config.ExpirationHours) * time.Hour)

	claims := &Claims{
		Scope: adminScope,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    s.config.Issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a token and returns its claims. The issuer and scope must
// match this service.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithIssuer(s.config.Issuer), jwt.WithTimeFunc(s.now))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("invalid token signature: %w", err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("token expired: %w", err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("malformed token: %w", err)
		default:
			return nil, fmt.Errorf("failed to parse token: %w", err)
		}
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	if claims.Scope != adminScope {
		return nil, fmt.Errorf("token scope %q is not allowed", claims.Scope)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return claims, nil
}
