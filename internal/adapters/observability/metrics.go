package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "travel", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "travel", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "travel", Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "travel", Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: "travel", Name: "circuit_breaker_state", Help: "0=closed 1=half-open 2=open."},
		[]string{"name"},
	)
	FlashEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "travel", Name: "flash_events_total", Help: "Flash pushes/pops/errors."},
		[]string{"store", "event"}, // event: push|pop|error
	)
	SeedResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "travel", Name: "seed_destinations_total", Help: "Seeded destinations by outcome."},
		[]string{"outcome"}, // ok|failed
	)
)

// Serve exposes the default registry on a side listener. Empty addr disables it.
func Serve(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

// MustRegisterAll adds every collector to the default registry.
func MustRegisterAll() {
	prometheus.MustRegister(allCollectors()...)
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(allCollectors()...)
	return reg
}

func allCollectors() []prometheus.Collector {
	return []prometheus.Collector{HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency, BreakerState, FlashEvents, SeedResults}
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveExternal records an outbound call; status 0 means the request never got a response.
func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func SetBreakerState(name string, state int) {
	BreakerState.WithLabelValues(name).Set(float64(state))
}

func ObserveFlash(store, event string) {
	FlashEvents.WithLabelValues(store, event).Inc()
}

func ObserveSeed(outcome string) {
	SeedResults.WithLabelValues(outcome).Inc()
}
