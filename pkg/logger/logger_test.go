package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newContext() echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	global := zap.NewNop()
	SetLogger(global)

	c := newContext()
	c.Request().Header.Set(RequestIDKey, "from-header")
	if got := FromContext(c); got != global {
		t.Errorf("FromContext() without a request logger should return the global logger")
	}
}

func TestWithRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	c := newContext()
	stored := WithRequest(c, "abc-123")

	if id, _ := c.Get(RequestIDKey).(string); id != "abc-123" {
		t.Errorf("request id = %q, want abc-123", id)
	}
	if FromContext(c) != stored {
		t.Fatal("FromContext() did not return the stored logger")
	}

	FromContext(c).Info("hello")
	entries := logs.All()
	if len(entries) != 1 || entries[0].ContextMap()["request_id"] != "abc-123" {
		t.Errorf("entries = %+v, want one tagged with request_id", entries)
	}
}
