package handler

import (
	"errors"
	"fmt"
	"strings"

	"bakery-service/internal/apperr"
	"bakery-service/internal/model"
	"bakery-service/internal/notifier"
	"bakery-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AdminMessageRequest is a customer's message to the bakery
type AdminMessageRequest struct {
	CustomerName     string `json:"customerName"`
	TelegramUsername string `json:"telegramUsername"`
	Message          string `json:"message"`
}

// BroadcastRequest is an admin's message to every customer
type BroadcastRequest struct {
	Message          string           `json:"message"`
	SenderTelegramID model.FlexString `json:"senderTelegramId"`
}

// BroadcastSummary is the data payload of a broadcast response
type BroadcastSummary struct {
	TotalCustomers       int                    `json:"totalCustomers"`
	SuccessfulDeliveries int                    `json:"successfulDeliveries"`
	FailedDeliveries     int                    `json:"failedDeliveries"`
	Details              []model.DeliveryResult `json:"details"`
}

// SendMessageToAdmin forwards a customer's message to the admin chat
func (h *Handler) SendMessageToAdmin(c echo.Context) error {
	log := logger.FromContext(c)

	const missingFields = "Отсутствуют обязательные поля (customerName, message)"

	var req AdminMessageRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid message payload: %v", err), missingFields)
	}
	if req.CustomerName == "" || req.Message == "" {
		return fail(c, apperr.Validation("missing required fields (customerName, message)"), missingFields)
	}

	text := notifier.AdminMessageText(req.CustomerName, req.TelegramUsername, req.Message)
	sent, err := h.notifier.NotifyAdmin(c.Request().Context(), text)
	if err == nil && !sent {
		err = apperr.External("notify admin", errors.New("message was not delivered"))
	}
	if err != nil {
		log.Error("Failed to deliver message to admin",
			zap.String("customer_name", req.CustomerName),
			zap.Error(err))
		return fail(c, err, "Ошибка при отправке сообщения администратору")
	}

	log.Info("Customer message forwarded to admin", zap.String("customer_name", req.CustomerName))
	return ok(c, nil, "Сообщение успешно отправлено администратору")
}

// Broadcast sends an admin's message to every registered customer
func (h *Handler) Broadcast(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	const emptyMessage = "Сообщение не может быть пустым"

	var req BroadcastRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid broadcast payload", zap.Error(err))
		return fail(c, apperr.Validation("invalid broadcast payload: %v", err), emptyMessage)
	}

	if h.adminID == "" || req.SenderTelegramID.String() != h.adminID {
		err := apperr.Authorization("sender %q is not the admin", req.SenderTelegramID.String())
		log.Warn("Broadcast attempt by non-admin", zap.Error(err))
		return fail(c, err, "Доступ запрещен. Только администратор может отправлять массовые рассылки.")
	}

	if strings.TrimSpace(req.Message) == "" {
		return fail(c, apperr.Validation("broadcast message is empty"), emptyMessage)
	}

	customers, err := h.customers.List(ctx)
	if err != nil {
		log.Error("Failed to load customers for broadcast", zap.Error(err))
		return fail(c, err, "Ошибка при отправке рассылки")
	}

	ids := make([]string, 0, len(customers))
	for _, customer := range customers {
		ids = append(ids, customer.TelegramID)
	}

	results, err := h.notifier.Broadcast(ctx, ids, req.Message)
	if err != nil {
		log.Error("Broadcast failed", zap.Int("recipients", len(ids)), zap.Error(err))
		return fail(c, err, "Ошибка при отправке рассылки")
	}

	summary := BroadcastSummary{TotalCustomers: len(ids), Details: results}
	for _, r := range results {
		if r.Success {
			summary.SuccessfulDeliveries++
		}
	}
	summary.FailedDeliveries = len(results) - summary.SuccessfulDeliveries

	log.Info("Broadcast completed",
		zap.Int("total", summary.TotalCustomers),
		zap.Int("successful", summary.SuccessfulDeliveries),
		zap.Int("failed", summary.FailedDeliveries))

	return ok(c, summary, fmt.Sprintf("Рассылка отправлена: %d успешно, %d не доставлено",
		summary.SuccessfulDeliveries, summary.FailedDeliveries))
}
