// Package mw contains HTTP middleware for the brandforge-api.
package mw

import (
	"context"
	"net/http"
	"strings"

	"github.com/brandforge/brandforge-api/internal/auth"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// UserClaimsKey is the context key for user claims.
	UserClaimsKey ContextKey = "user_claims"
)

// UserClaims is the authenticated identity attached to a request.
type UserClaims struct {
	UserID    string // Clerk user ID (sub claim)
	Email     string
	Name      string
	SessionID string
}

// Auth returns an authentication middleware that verifies Clerk JWTs.
// Every protected route requires a bearer token; user scoping downstream
// relies on the sub claim placed in the context here.
func Auth(verifier *auth.ClerkVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
				return
			}

			token := authHeader
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimPrefix(authHeader, "Bearer ")
			}

			claims, err := validateClerkToken(verifier, token)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validateClerkToken validates a Clerk JWT and converts it to UserClaims.
func validateClerkToken(verifier *auth.ClerkVerifier, tokenString string) (*UserClaims, error) {
	if verifier == nil {
		return nil, auth.ErrInvalidToken
	}
	clerkClaims, err := verifier.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}

	return &UserClaims{
		UserID:    clerkClaims.UserID,
		Email:     clerkClaims.Email,
		Name:      clerkClaims.FullName,
		SessionID: clerkClaims.SessionID,
	}, nil
}

// GetUserClaims retrieves user claims from context.
func GetUserClaims(ctx context.Context) *UserClaims {
	claims, ok := ctx.Value(UserClaimsKey).(*UserClaims)
	if !ok {
		return nil
	}
	return claims
}
