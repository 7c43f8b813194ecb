package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	logins   *prometheus.CounterVec
	slides   *prometheus.CounterVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "picnic_web",
				Name:      "http_requests_total",
				Help:      "HTTP requests served, by route and status code.",
			},
			[]string{"method", "route", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "picnic_web",
				Name:      "http_request_duration_seconds",
				Help:      "Time spent serving HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		logins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "picnic_web",
				Name:      "login_attempts_total",
				Help:      "Login attempts, by outcome.",
			},
			[]string{"outcome"},
		),
		slides: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "picnic_web",
				Name:      "slider_actions_total",
				Help:      "Slider navigation requests, by action.",
			},
			[]string{"action"},
		),
	}
}
