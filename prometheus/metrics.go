package prometheus

import (
	"strconv"
	"sync"
	"time"

	"bakery-service/pkg/config"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Spreadsheet operation metrics
	SheetOperationDuration *prometheus.HistogramVec
	SheetOperationErrors   *prometheus.CounterVec

	// Telegram delivery metrics
	MessagesSentCounter *prometheus.CounterVec

	// Business metrics
	OrdersCreatedCounter     prometheus.Counter
	CustomerUpsertsCounter   *prometheus.CounterVec
	InitDataChecksCounter    *prometheus.CounterVec
	BroadcastRecipientsGauge prometheus.Gauge

	initOnce sync.Once
)

// InitMetrics initializes Prometheus metrics with configuration.
// Subsequent calls are no-ops.
func InitMetrics(cfg *config.Config) {
	initOnce.Do(func() {
		prefix := cfg.Metrics.Prefix

		HttpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		HttpRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		SheetOperationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_sheet_operation_duration_seconds",
				Help:    "Duration of Google Sheets operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "sheet"},
		)

		SheetOperationErrors = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_sheet_operation_errors_total",
				Help: "Total number of failed Google Sheets operations",
			},
			[]string{"operation", "sheet"},
		)

		MessagesSentCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_telegram_messages_total",
				Help: "Total number of Telegram messages by kind and result",
			},
			[]string{"kind", "result"},
		)

		OrdersCreatedCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_orders_created_total",
				Help: "Total number of orders recorded",
			},
		)

		CustomerUpsertsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_customer_upserts_total",
				Help: "Total number of customer upserts by outcome",
			},
			[]string{"outcome"},
		)

		InitDataChecksCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_init_data_checks_total",
				Help: "Total number of Telegram init data checks by result",
			},
			[]string{"result"},
		)

		BroadcastRecipientsGauge = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: prefix + "_last_broadcast_recipients",
				Help: "Number of recipients in the most recent broadcast",
			},
		)
	})
}

// MetricsMiddleware records request count and duration per route
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			if HttpRequestsTotal == nil {
				return err
			}

			// c.Path() is the route template, which keeps label cardinality bounded
			method := c.Request().Method
			path := c.Path()
			status := strconv.Itoa(c.Response().Status)

			HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
			HttpRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// TrackSheetOperation returns a function that records the duration of a sheet operation
func TrackSheetOperation(operation, sheet string) func(err error) {
	start := time.Now()
	return func(err error) {
		if SheetOperationDuration == nil {
			return
		}
		SheetOperationDuration.WithLabelValues(operation, sheet).Observe(time.Since(start).Seconds())
		if err != nil {
			SheetOperationErrors.WithLabelValues(operation, sheet).Inc()
		}
	}
}

// RecordMessage counts a Telegram send attempt
func RecordMessage(kind string, success bool) {
	if MessagesSentCounter == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	MessagesSentCounter.WithLabelValues(kind, result).Inc()
}

// RecordOrderCreated increments the order counter
func RecordOrderCreated() {
	if OrdersCreatedCounter != nil {
		OrdersCreatedCounter.Inc()
	}
}

// RecordCustomerUpsert counts an upsert by outcome ("created" or "updated")
func RecordCustomerUpsert(outcome string) {
	if CustomerUpsertsCounter != nil {
		CustomerUpsertsCounter.WithLabelValues(outcome).Inc()
	}
}

// RecordInitDataCheck counts an init data check by result
func RecordInitDataCheck(result string) {
	if InitDataChecksCounter != nil {
		InitDataChecksCounter.WithLabelValues(result).Inc()
	}
}

// SetBroadcastRecipients records the size of the latest broadcast
func SetBroadcastRecipients(n int) {
	if BroadcastRecipientsGauge != nil {
		BroadcastRecipientsGauge.Set(float64(n))
	}
}
