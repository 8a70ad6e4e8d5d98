package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dealdesk/dealdesk/internal/logger"
	"github.com/dealdesk/dealdesk/internal/service/ratelimit"
)

// statusRecorder captures the response status for the request log
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware attaches a correlation id and logs every request
func loggingMiddleware(log logger.Logger, correlationHeader string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			correlationID := r.Header.Get(correlationHeader)
			if correlationID == "" {
				correlationID = uuid.NewString()
			}
			ctx := context.WithValue(r.Context(), logger.CorrelationIDKey, correlationID)
			w.Header().Set(correlationHeader, correlationID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r.WithContext(ctx))

			log.Info(ctx, "request completed", map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
				"remote_addr": r.RemoteAddr,
			})
		})
	}
}

// corsMiddleware handles cross-origin requests for the configured origins
func corsMiddleware(allowedOrigins []string, allowCredentials bool) func(http.Handler) http.Handler {
	allowAll := len(allowedOrigins) == 0
	originSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		originSet[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case originSet[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Correlation-ID")
			if allowCredentials && !allowAll {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// recoveryMiddleware converts panics into 500 responses
func recoveryMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error(r.Context(), "panic recovered", fmt.Errorf("%v", rec), map[string]interface{}{
						"path": r.URL.Path,
					})
					writeJSON(w, http.StatusInternalServerError, false, "Internal server error", nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// rateLimitMiddleware throttles clients by IP
func rateLimitMiddleware(limiter ratelimit.Limiter, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), clientIP(r))
			if err != nil {
				// Limiter outage must not take the API down
				log.Warn(r.Context(), "rate limiter unavailable", map[string]interface{}{
					"error": err.Error(),
				})
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				writeJSON(w, http.StatusTooManyRequests, false, "Too many requests", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
