package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP метрики
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fraccalc_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fraccalc_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Метрики калькулятора
	FractionOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fraccalc_fraction_operations_total",
			Help: "Total number of fraction operations",
		},
		[]string{"op", "status"}, // status: success, error
	)

	FractionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fraccalc_fraction_errors_total",
			Help: "Failed fraction operations by error kind",
		},
		[]string{"kind"}, // validation, overflow, internal
	)

	CalculatorVariablesCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fraccalc_variables_count",
			Help: "Current number of stored variables",
		},
	)

	CalculatorHistorySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fraccalc_history_size",
			Help: "Current size of command history",
		},
	)

	ActiveWebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fraccalc_websocket_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)
)

// ObserveOperation - учёт выполненной операции и типа ошибки
func ObserveOperation(op, errKind string) {
	if errKind == "" {
		FractionOperations.WithLabelValues(op, "success").Inc()
		return
	}
	FractionOperations.WithLabelValues(op, "error").Inc()
	FractionErrors.WithLabelValues(errKind).Inc()
}

// UpdateCalculatorMetrics - обновление метрик калькулятора
func UpdateCalculatorMetrics(varsCount, historySize int) {
	CalculatorVariablesCount.Set(float64(varsCount))
	CalculatorHistorySize.Set(float64(historySize))
}
