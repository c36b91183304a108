package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
)

// Collector bundles the Prometheus metrics of the HTTP surface.
type Collector struct {
	gatherer prometheus.Gatherer

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ComputeDuration *prometheus.HistogramVec
	Cells           *prometheus.CounterVec
	RateLimited     prometheus.Counter
}

// NewCollector registers the server metrics against reg, defaulting to the
// global registry when nil. Metrics already registered are reused.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rupture",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests, labeled by route, method and status code.",
	}, []string{"route", "method", "code"}), "rupture_http_requests_total")
	if err != nil {
		return nil, err
	}

	requestDuration, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rupture",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"route", "method"}), "rupture_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	computeDuration, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rupture",
		Subsystem: "distance",
		Name:      "compute_duration_seconds",
		Help:      "Distance matrix computation time in seconds, labeled by metric.",
		Buckets:   []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"metric"}), "rupture_distance_compute_duration_seconds")
	if err != nil {
		return nil, err
	}

	cells, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rupture",
		Subsystem: "distance",
		Name:      "cells_total",
		Help:      "Total site-rupture distances computed, labeled by metric.",
	}, []string{"metric"}), "rupture_distance_cells_total")
	if err != nil {
		return nil, err
	}

	limited, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rupture",
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Total requests rejected by the rate limiter.",
	}), "rupture_http_rate_limited_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:        gatherer,
		Requests:        requests,
		RequestDuration: requestDuration,
		ComputeDuration: computeDuration,
		Cells:           cells,
		RateLimited:     limited,
	}, nil
}

// Handler exposes the /metrics endpoint.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, eris.Errorf("server: collector %s already registered with incompatible type", name)
		}
		return nil, eris.Wrapf(err, "server: register %s", name)
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, eris.Errorf("server: collector %s already registered with incompatible type", name)
		}
		return nil, eris.Wrapf(err, "server: register %s", name)
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, eris.Errorf("server: collector %s already registered with incompatible type", name)
		}
		return nil, eris.Wrapf(err, "server: register %s", name)
	}
	return c, nil
}
