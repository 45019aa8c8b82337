package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	WsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "superchat_ws_connections",
		Help: "Current number of active websocket subscriptions",
	})
	MessagesSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "superchat_messages_sent_total",
		Help: "Total number of chat messages sent",
	})
	ReactionTogglesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "superchat_reaction_toggles_total",
		Help: "Total number of reaction toggles",
	})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(
		WsConnections,
		MessagesSentTotal,
		ReactionTogglesTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}

// Middleware records basic request metrics for Prometheus to scrape.
// Labels use the chi route pattern so path cardinality stays bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				path = p
			}
		}
		labels := prometheus.Labels{
			"method": r.Method,
			"path":   path,
			"status": strconv.Itoa(ww.Status()),
		}
		HTTPRequestsTotal.With(labels).Inc()
		HTTPRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	})
}
