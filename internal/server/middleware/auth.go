// Package middleware provides HTTP middleware for the admin API.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// subjectKey is the context key for the authenticated operator.
const subjectKey ContextKey = "adminSubject"

// TokenValidator validates bearer tokens. It lets the middleware work with any token
// service without an import cycle.
type TokenValidator interface {
	ValidateToken(tokenString string) (OperatorClaims, error)
}

// OperatorClaims exposes the operator a token was issued to.
type OperatorClaims interface {
	Operator() string
}

// AuthMiddleware rejects requests without a valid bearer token and stores the token's
// subject in the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, claims.Operator())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header. The
// scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], parts[1] != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}` + "\n"))
}

// GetSubject returns the authenticated operator from the request context.
func GetSubject(r *http.Request) (string, error) {
	subject, ok := r.Context().Value(subjectKey).(string)
	if !ok {
		return "", fmt.Errorf("admin subject not found in request context")
	}
	return subject, nil
}

// SubjectKey returns the context key for the subject (for testing purposes).
func SubjectKey() ContextKey {
	return subjectKey
}
