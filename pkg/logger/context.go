package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	RequestIDKey = "X-Request-ID"
	ContextKey   = "logger"
)

// WithRequest stores the request id and a logger tagged with it on c
func WithRequest(c echo.Context, requestID string) *zap.Logger {
	l := GetLogger().With(zap.String("request_id", requestID))
	c.Set(RequestIDKey, requestID)
	c.Set(ContextKey, l)
	return l
}

// FromContext returns the request logger, or the global one outside a request
func FromContext(c echo.Context) *zap.Logger {
	if l, ok := c.Get(ContextKey).(*zap.Logger); ok {
		return l
	}
	return GetLogger()
}
