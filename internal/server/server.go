// Package server assembles the echo instance serving the bakery API.
package server

import (
	"errors"
	"net/http"

	"bakery-service/internal/handler"
	mid "bakery-service/internal/middleware"
	"bakery-service/internal/model"
	"bakery-service/pkg/config"
	"bakery-service/pkg/logger"
	"bakery-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	internalErrorMessage = "Внутренняя ошибка сервера"
	notFoundMessage      = "Маршрут не найден"
)

// New builds the echo instance with middleware and every route mounted
func New(cfg *config.Config, h *handler.Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", handler.HealthCheck)

	// Init data is checked per route so unknown API paths still answer 404.
	h.Register(e.Group("/api"), mid.InitDataMiddleware(&cfg.Telegram))

	return e
}

// errorHandler answers errors that escape the handlers with the JSON envelope
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := internalErrorMessage

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			status = http.StatusNotFound
			message = notFoundMessage
		case http.StatusInternalServerError:
		default:
			status = he.Code
			message = http.StatusText(he.Code)
		}
	}

	if status >= http.StatusInternalServerError {
		logger.FromContext(c).Error("Unhandled server error", zap.Error(err))
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, model.Response{Success: false, Error: message})
	}
	if writeErr != nil {
		logger.FromContext(c).Error("Failed to write error response", zap.Error(writeErr))
	}
}
