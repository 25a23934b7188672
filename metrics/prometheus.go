package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"time"
)

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ozon_api_requests_total",
			Help: "Total number of requests sent to the Ozon Seller API.",
		},
		[]string{"method", "endpoint", "status"},
	)
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ozon_api_request_duration_seconds",
			Help:    "Histogram of Ozon Seller API request durations.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)
	batchItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ozon_batch_items_total",
			Help: "Per-item outcomes of price and stock batch updates.",
		},
		[]string{"operation", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(apiRequestsTotal)
	prometheus.MustRegister(apiRequestDuration)
	prometheus.MustRegister(batchItemsTotal)
}

// RecordRequest записывает метрики для исходящего запроса к API.
// statusCode == 0 означает, что ответ не был получен.
func RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	apiRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	apiRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

// RecordBatchItem учитывает результат одного элемента пакетного обновления.
func RecordBatchItem(operation, outcome string) {
	batchItemsTotal.WithLabelValues(operation, outcome).Inc()
}

// classifyStatus классифицирует HTTP-статус код в строку.
func classifyStatus(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "2xx"
	} else if statusCode >= 300 && statusCode < 400 {
		return "3xx"
	} else if statusCode >= 400 && statusCode < 500 {
		return "4xx"
	} else if statusCode >= 500 && statusCode < 600 {
		return "5xx"
	} else if statusCode == 0 {
		return "no_response"
	}
	return "unknown"
}

// MetricsHandler возвращает HTTP-обработчик для экспорта метрик Prometheus.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
