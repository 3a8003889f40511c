// Package metrics exposes the prometheus collectors for the demo server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "webkit_requests_total",
		Help: "Total number of HTTP requests served",
	})
	RequestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "webkit_request_duration_seconds",
		Help:    "Request duration in seconds",
		Buckets: prometheus.DefBuckets,
	})
	ResponsesByStatus = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webkit_responses_total",
		Help: "Responses by status class",
	}, []string{"class"})
	RequestsByBrowser = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webkit_requests_by_browser_total",
		Help: "Requests by browser family parsed from the User-Agent header",
	}, []string{"browser"})
	RateLimitRejections = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "webkit_ratelimit_rejections_total",
		Help: "Requests rejected by the per-client rate limiter",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(ResponsesByStatus)
	prometheus.MustRegister(RequestsByBrowser)
	prometheus.MustRegister(RateLimitRejections)
}

// Handler returns the prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StatusClass buckets a status code into "2xx".."5xx" for the responses
// counter. Informational responses land in "2xx"; they do not occur here.
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
