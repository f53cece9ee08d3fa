package www

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ordermate_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "status"})

	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ordermate_mutations_total",
		Help: "Record field mutations by collection and outcome.",
	}, []string{"collection", "outcome"})

	loadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ordermate_loads_total",
		Help: "Collection loads by collection and outcome.",
	}, []string{"collection", "outcome"})
)

// metricsMiddleware counts every request against its chi route pattern.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
	})
}
