package prometheus

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bakery-service/pkg/config"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecorded(t *testing.T) {
	InitMetrics(&config.Config{Metrics: config.MetricsConfig{Prefix: "bakery_test"}})
	// A second call must not panic on duplicate registration
	InitMetrics(&config.Config{Metrics: config.MetricsConfig{Prefix: "bakery_test"}})

	e := echo.New()
	e.Use(MetricsMiddleware())
	e.GET("/api/products/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/7", nil))

	if got := testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("GET", "/api/products/:id", "200")); got != 1 {
		t.Errorf("http_requests_total = %v, want 1", got)
	}

	done := TrackSheetOperation("read", "Products")
	done(errors.New("quota"))
	if got := testutil.ToFloat64(SheetOperationErrors.WithLabelValues("read", "Products")); got != 1 {
		t.Errorf("sheet_operation_errors_total = %v, want 1", got)
	}

	RecordMessage("broadcast", false)
	if got := testutil.ToFloat64(MessagesSentCounter.WithLabelValues("broadcast", "failure")); got != 1 {
		t.Errorf("telegram_messages_total = %v, want 1", got)
	}
}
