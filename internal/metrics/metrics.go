// Package metrics содержит Prometheus-метрики сервиса.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	// ResultSuccess: операция завершилась успешно.
	ResultSuccess = "success"
	// ResultRejected: ошибка на стороне клиента (4xx).
	ResultRejected = "rejected"
	// ResultError: непредвиденная ошибка (5xx).
	ResultError = "error"
)

var (
	// RequestsTotal считает HTTP-запросы по методу, шаблону маршрута и коду статуса.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "writeitdown_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration: длительность HTTP-запросов в секундах.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "writeitdown_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// AuthAttemptsTotal считает регистрации и входы по результату.
	AuthAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "writeitdown_auth_attempts_total",
			Help: "Register and login attempts",
		},
		[]string{"operation", "result"},
	)

	// UnauthenticatedTotal считает запросы, отклонённые auth middleware.
	UnauthenticatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "writeitdown_unauthenticated_requests_total",
			Help: "Requests rejected by the auth middleware",
		},
	)

	// RateLimitedTotal считает запросы, отклонённые лимитером.
	RateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "writeitdown_ratelimit_rejected_total",
			Help: "Requests rejected by the rate limiter",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		AuthAttemptsTotal,
		UnauthenticatedTotal,
		RateLimitedTotal,
	)
}
