package api

import (
	"net/http"
	"strings"

	"encoding/json/v2"

	domainerrors "github.com/storyloop/storyloop-server/internal/errors"
	"github.com/storyloop/storyloop-server/internal/logger"
	"github.com/storyloop/storyloop-server/internal/ratelimit"
)

// Scan-station throttle: a stuck barcode gun retriggers fast, but no station
// legitimately sustains more than a few scans per second.
const (
	scanRatePerSecond = 5
	scanBurst         = 10
)

// scanRateLimitMiddleware rate limits mutating intake requests per station IP.
// Returns 429 Too Many Requests when the limit is exceeded.
func scanRateLimitMiddleware(limiter *ratelimit.KeyedLimiter, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || !strings.HasPrefix(r.URL.Path, "/api/v1/intake/") {
				next.ServeHTTP(w, r)
				return
			}

			key := getClientIP(r)
			if !limiter.Allow(key) {
				if log != nil {
					log.Warn("scan rate limit exceeded", "ip", key, "path", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.MarshalWrite(w, &APIError{
					Code:    string(domainerrors.CodeRateLimited),
					Message: "Too many requests. Slow the scanner down and retry.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return xff[:i]
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return ip[:i]
	}
	return ip
}
