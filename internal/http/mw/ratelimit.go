package mw

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimitByUser returns a middleware that rate limits by user ID.
// Must be applied after Auth; unauthenticated requests fall back to IP keys.
func RateLimitByUser(requestsPerMinute int) func(http.Handler) http.Handler {
	limiter := httprate.NewRateLimiter(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			claims := GetUserClaims(r.Context())
			if claims == nil || claims.UserID == "" {
				return httprate.KeyByIP(r)
			}
			return "user:" + claims.UserID, nil
		}),
	)

	return func(next http.Handler) http.Handler {
		return limiter.Handler(next)
	}
}

// RateLimitByIP returns a middleware that rate limits by IP address.
// Applied globally ahead of authentication.
func RateLimitByIP(requestsPerMinute int) func(http.Handler) http.Handler {
	return httprate.LimitByIP(requestsPerMinute, time.Minute)
}
