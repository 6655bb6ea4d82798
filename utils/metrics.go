package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ReqCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medtrack_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "medtrack_request_duration_seconds",
			Help: "Request duration seconds",
		},
		[]string{"method", "path"},
	)

	// handler is the endpoint category, type the error kind.
	ErrorCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medtrack_errors_total",
			Help: "Total app errors",
		},
		[]string{"handler", "type"},
	)

	DosesLogged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medtrack_doses_logged_total",
			Help: "Adherence entries recorded, by taken status",
		},
		[]string{"status"},
	)

	OrdersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "medtrack_orders_created_total",
			Help: "Refill orders placed",
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(ReqCount, ReqDuration, ErrorCount, DosesLogged, OrdersCreated)
}
