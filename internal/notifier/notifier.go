// Package notifier formats and delivers Telegram messages for the bakery.
package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bakery-service/internal/apperr"
	"bakery-service/internal/model"
	"bakery-service/pkg/config"
	"bakery-service/pkg/telegram"
	"bakery-service/prometheus"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Sender is the messaging session the notifier delivers through
type Sender interface {
	Connect(ctx context.Context) error
	Send(ctx context.Context, msg telegram.Message) error
}

type Notifier struct {
	sender  Sender
	adminID string
	delay   time.Duration
	log     *zap.Logger
}

func New(sender Sender, cfg *config.TelegramConfig, log *zap.Logger) *Notifier {
	return &Notifier{
		sender:  sender,
		adminID: cfg.AdminID,
		delay:   cfg.BroadcastDelay,
		log:     log,
	}
}

// SendDirect makes one delivery attempt. A failed send is reported as false;
// only a session that cannot start returns an error.
func (n *Notifier) SendDirect(ctx context.Context, recipientID, text string) (bool, error) {
	return n.send(ctx, "direct", telegram.Message{ChatID: recipientID, Text: text})
}

// SendOrderNotification sends the new-order summary to the admin
func (n *Notifier) SendOrderNotification(ctx context.Context, order *model.Order) (bool, error) {
	if n.adminID == "" {
		n.log.Warn("Admin Telegram id is not configured, order notification skipped",
			zap.String("order_id", order.ID))
		return false, nil
	}
	return n.send(ctx, "order", telegram.Message{
		ChatID:    n.adminID,
		Text:      orderNotificationText(order),
		ParseMode: telegram.ModeMarkdown,
	})
}

// SendOrderConfirmation tells the customer their order was accepted.
// Orders without a customer id are skipped.
func (n *Notifier) SendOrderConfirmation(ctx context.Context, order *model.Order) (bool, error) {
	if order.CustomerID == "" {
		return false, nil
	}
	return n.send(ctx, "confirmation", telegram.Message{
		ChatID:    order.CustomerID,
		Text:      orderConfirmationText(order),
		ParseMode: telegram.ModeMarkdown,
	})
}

// NotifyAdmin sends a Markdown message to the admin
func (n *Notifier) NotifyAdmin(ctx context.Context, text string) (bool, error) {
	if n.adminID == "" {
		n.log.Warn("Admin Telegram id is not configured, message skipped")
		return false, nil
	}
	return n.send(ctx, "admin", telegram.Message{
		ChatID:    n.adminID,
		Text:      text,
		ParseMode: telegram.ModeMarkdown,
	})
}

// Broadcast sends text to every recipient in order, pausing between sends.
// Individual failures are recorded in the results and never stop the run.
// The run is not cancelled when ctx is.
func (n *Notifier) Broadcast(ctx context.Context, recipientIDs []string, text string) ([]model.DeliveryResult, error) {
	ctx = context.WithoutCancel(ctx)

	if err := n.sender.Connect(ctx); err != nil {
		return nil, err
	}

	limit := rate.Inf
	if n.delay > 0 {
		limit = rate.Every(n.delay)
	}
	limiter := rate.NewLimiter(limit, 1)

	prometheus.SetBroadcastRecipients(len(recipientIDs))
	results := make([]model.DeliveryResult, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		if err := limiter.Wait(ctx); err != nil {
			return results, err
		}

		result := model.DeliveryResult{ID: id, Success: true}
		if err := n.sender.Send(ctx, telegram.Message{ChatID: id, Text: text}); err != nil {
			if apperr.Is(err, apperr.KindInitialization) {
				return results, err
			}
			result.Success = false
			result.Error = err.Error()
			n.log.Warn("Broadcast delivery failed", zap.String("recipient", id), zap.Error(err))
		}
		prometheus.RecordMessage("broadcast", result.Success)
		results = append(results, result)
	}

	return results, nil
}

func (n *Notifier) send(ctx context.Context, kind string, msg telegram.Message) (bool, error) {
	if err := n.sender.Connect(ctx); err != nil {
		n.log.Error("Telegram session is unavailable", zap.String("kind", kind), zap.Error(err))
		return false, err
	}

	if err := n.sender.Send(ctx, msg); err != nil {
		if apperr.Is(err, apperr.KindInitialization) {
			return false, err
		}
		n.log.Warn("Failed to send Telegram message",
			zap.String("kind", kind),
			zap.String("recipient", msg.ChatID),
			zap.Error(err))
		prometheus.RecordMessage(kind, false)
		return false, nil
	}

	prometheus.RecordMessage(kind, true)
	return true, nil
}

// AdminMessageText formats a customer's message for the admin chat
func AdminMessageText(customerName, username, message string) string {
	from := escape(customerName)
	if username != "" {
		from += " (@" + escape(strings.TrimPrefix(username, "@")) + ")"
	}
	return fmt.Sprintf("📨 *Сообщение от клиента*\n\n👤 *От*: %s\n💬 *Сообщение*: %s\n\n_Отправлено через мини-приложение_",
		from, escape(message))
}

func orderNotificationText(o *model.Order) string {
	comment := "Нет"
	if o.AdditionalComment != "" {
		comment = escape(o.AdditionalComment)
	}

	var b strings.Builder
	b.WriteString("🍰 *НОВЫЙ ЗАКАЗ* 🍰\n\n")
	fmt.Fprintf(&b, "👤 *Клиент*: %s\n", escape(o.CustomerName))
	fmt.Fprintf(&b, "📱 *Контакт*: %s\n", escape(o.CustomerContact))
	fmt.Fprintf(&b, "🎂 *Продукт*: %s\n", escape(o.ProductName))
	fmt.Fprintf(&b, "📅 *Дата получения*: %s\n", escape(o.DeliveryDate))
	fmt.Fprintf(&b, "📦 *Упаковка*: %s\n", escape(o.Packaging))
	fmt.Fprintf(&b, "🚚 *Способ получения*: %s\n", escape(o.DeliveryMethod))
	fmt.Fprintf(&b, "💬 *Комментарий*: %s\n\n", comment)
	fmt.Fprintf(&b, "📝 *Идентификатор заказа*: `%s`", o.ID)
	return b.String()
}

func orderConfirmationText(o *model.Order) string {
	var b strings.Builder
	b.WriteString("🎂 *Ваш заказ успешно принят!*\n\n")
	fmt.Fprintf(&b, "*Продукт*: %s\n", escape(o.ProductName))
	fmt.Fprintf(&b, "*Дата получения*: %s\n", escape(o.DeliveryDate))
	fmt.Fprintf(&b, "*Способ получения*: %s\n\n", escape(o.DeliveryMethod))
	b.WriteString("Мы свяжемся с вами для подтверждения заказа. Спасибо за доверие!")
	return b.String()
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}
