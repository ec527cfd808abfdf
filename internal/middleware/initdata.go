package middleware

import (
	"net/http"

	"bakery-service/internal/model"
	"bakery-service/pkg/config"
	"bakery-service/pkg/initdata"
	"bakery-service/pkg/logger"
	"bakery-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// InitDataHeader carries the raw Telegram Web App init data
const InitDataHeader = "telegram-init-data"

const userKey = "telegram_user"

const invalidInitDataMessage = "Неверные данные Telegram"

// InitDataMiddleware checks Telegram Web App init data on state-changing
// requests. When verification is not enforced, requests pass through and a
// valid user, if any, is still attached to the context.
func InitDataMiddleware(cfg *config.TelegramConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			log := logger.FromContext(c)
			raw := c.Request().Header.Get(InitDataHeader)

			if raw == "" {
				prometheus.RecordInitDataCheck("missing")
				if cfg.VerifyInitData {
					log.Warn("Missing Telegram init data")
					return c.JSON(http.StatusUnauthorized, model.Response{Success: false, Error: invalidInitDataMessage})
				}
				return next(c)
			}

			if cfg.BotToken == "" || !initdata.Validate(raw, cfg.BotToken) {
				prometheus.RecordInitDataCheck("invalid")
				if cfg.VerifyInitData {
					log.Warn("Invalid Telegram init data")
					return c.JSON(http.StatusUnauthorized, model.Response{Success: false, Error: invalidInitDataMessage})
				}
				log.Debug("Ignoring invalid Telegram init data, verification is disabled")
				return next(c)
			}

			prometheus.RecordInitDataCheck("valid")
			user, err := initdata.ParseUser(raw)
			if err != nil {
				log.Warn("Init data carries no usable user", zap.Error(err))
				return next(c)
			}

			c.Set(userKey, user)
			log.Info("Request from Telegram user",
				zap.Int64("telegram_id", user.ID),
				zap.String("username", user.Username))

			return next(c)
		}
	}
}

// UserFromContext returns the verified Telegram user, if any
func UserFromContext(c echo.Context) (*initdata.User, bool) {
	user, ok := c.Get(userKey).(*initdata.User)
	return user, ok
}
