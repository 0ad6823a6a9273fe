// Package metrics exposes Prometheus counters for the HTTP surface and
// outbound provider calls.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mind180_http_requests_total",
		Help: "HTTP requests by handler and status code.",
	}, []string{"handler", "method", "code"})

	providerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mind180_provider_requests_total",
		Help: "Outbound provider calls by provider and outcome.",
	}, []string{"provider", "outcome"})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one handled HTTP request.
func ObserveRequest(handler, method string, code int) {
	requestsTotal.WithLabelValues(handler, method, strconv.Itoa(code)).Inc()
}

// ObserveProviderCall records one outbound provider call.
func ObserveProviderCall(provider string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	providerRequestsTotal.WithLabelValues(provider, outcome).Inc()
}

// statusRecorder captures the response code for instrumentation.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// Instrument wraps a handler with request counting under the given name.
func Instrument(name string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		ObserveRequest(name, r.Method, rec.code)
	})
}
