// Package security provides the HTTP middleware chain and per-client rate
// limiting used by the demo server.
package security

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/webfold/webkit/pkg/logger"
	"github.com/webfold/webkit/pkg/metrics"
	"github.com/webfold/webkit/pkg/webutil"
)

// Middleware wires request logging, panic recovery, security headers, rate
// limiting and prometheus instrumentation around next. Each request gets a
// request id that appears in every log line it produces.
func Middleware(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ip := webutil.ClientIPAddr(r)
			reqID := uuid.NewString()

			fields := logger.Fields{
				"request_id": reqID,
				"method":     r.Method,
				"url":        webutil.FullRequestURL(r),
				"ip":         ip,
			}
			if ua, ok := webutil.RequestUserAgent(r); ok {
				fields["browser"] = ua.Name
				fields["browser_version"] = ua.Version
				metrics.RequestsByBrowser.WithLabelValues(ua.Name).Inc()
			} else {
				metrics.RequestsByBrowser.WithLabelValues("other").Inc()
			}
			logger.Info("request", fields)
			metrics.RequestsTotal.Inc()

			// Wrap ResponseWriter to capture the status code
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			// Panic recovery
			defer func() {
				if err := recover(); err != nil {
					buf := make([]byte, 4096)
					n := runtime.Stack(buf, false)
					logger.Error("panic recovered", fmt.Errorf("%v", err), logger.Fields{
						"request_id": reqID,
						"ip":         ip,
						"path":       r.URL.Path,
						"stack":      string(buf[:n]),
					})
					http.Error(wrapped, "internal server error", http.StatusInternalServerError)
				}

				duration := time.Since(start)
				metrics.RequestDuration.Observe(duration.Seconds())
				metrics.ResponsesByStatus.WithLabelValues(metrics.StatusClass(wrapped.statusCode)).Inc()

				respFields := logger.Fields{
					"request_id": reqID,
					"status":     wrapped.statusCode,
					"duration":   duration.String(),
				}
				if wrapped.statusCode >= 400 {
					logger.Warn("response error", respFields)
				} else {
					logger.Info("response", respFields)
				}
			}()

			// Rate limiting
			if !rl.Allow(ip) {
				metrics.RateLimitRejections.Inc()
				logger.Warn("rate limit exceeded", logger.Fields{
					"request_id": reqID,
					"ip":         ip,
					"path":       r.URL.Path,
				})
				http.Error(wrapped, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			// Security headers
			wrapped.Header().Set("X-Content-Type-Options", "nosniff")
			wrapped.Header().Set("X-Frame-Options", "DENY")
			wrapped.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")

			next.ServeHTTP(wrapped, r)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter

	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.written = true
	}
	return rw.ResponseWriter.Write(b)
}
