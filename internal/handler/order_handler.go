package handler

import (
	"context"

	"bakery-service/internal/apperr"
	mid "bakery-service/internal/middleware"
	"bakery-service/internal/model"
	"bakery-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreateOrder records an order, notifies the admin and confirms to the customer
func (h *Handler) CreateOrder(c echo.Context) error {
	log := withTelegramUser(c, logger.FromContext(c))
	ctx := c.Request().Context()

	var req model.OrderInput
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid order payload", zap.Error(err))
		return fail(c, apperr.Validation("invalid order payload: %v", err), "Отсутствуют обязательные поля")
	}

	order, err := h.orders.Create(ctx, req)
	if err != nil {
		if apperr.Is(err, apperr.KindValidation) {
			log.Info("Order rejected", zap.Error(err))
			return fail(c, err, "Отсутствуют обязательные поля")
		}
		log.Error("Failed to create order", zap.Error(err))
		return fail(c, err, "Ошибка при создании заказа")
	}

	log.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("product_id", order.ProductID),
		zap.String("customer_id", order.CustomerID))

	// The order is stored; notifications go out even if the client has gone.
	notifyCtx := context.WithoutCancel(ctx)

	if sent, err := h.notifier.SendOrderNotification(notifyCtx, order); err != nil || !sent {
		log.Warn("Admin was not notified about the order",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}

	if order.CustomerID != "" {
		if sent, err := h.notifier.SendOrderConfirmation(notifyCtx, order); err != nil || !sent {
			log.Warn("Order confirmation was not delivered",
				zap.String("order_id", order.ID),
				zap.String("customer_id", order.CustomerID),
				zap.Error(err))
		}
	}

	return ok(c, order, "Заказ успешно создан и отправлен администратору")
}

// SaveCustomer creates or refreshes a customer profile
func (h *Handler) SaveCustomer(c echo.Context) error {
	log := withTelegramUser(c, logger.FromContext(c))

	var req model.CustomerInput
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid customer payload", zap.Error(err))
		return fail(c, apperr.Validation("invalid customer payload: %v", err), "Отсутствуют обязательные поля (telegramId, name)")
	}

	customer, err := h.customers.Upsert(c.Request().Context(), req)
	if err != nil {
		if apperr.Is(err, apperr.KindValidation) {
			return fail(c, err, "Отсутствуют обязательные поля (telegramId, name)")
		}
		log.Error("Failed to save customer",
			zap.String("telegram_id", req.TelegramID.String()),
			zap.Error(err))
		return fail(c, err, "Ошибка при сохранении данных пользователя")
	}

	log.Info("Customer saved",
		zap.String("customer_id", customer.ID),
		zap.String("telegram_id", customer.TelegramID))
	return ok(c, customer, "Данные пользователя успешно сохранены")
}

// withTelegramUser tags log with the verified Web App user, when there is one
func withTelegramUser(c echo.Context, log *zap.Logger) *zap.Logger {
	user, found := mid.UserFromContext(c)
	if !found {
		return log
	}
	return log.With(zap.Int64("verified_telegram_id", user.ID))
}
