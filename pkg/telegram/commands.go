package telegram

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	replyAdminGreeting    = "Приветствую, администратор! Я буду отправлять вам уведомления о новых заказах."
	replyCustomerGreeting = "Привет! Чтобы просмотреть каталог продукции, откройте мини-приложение."
	replyAdminOnly        = "Эта команда доступна только администратору."
	replyBroadcastUsage   = "Пожалуйста, укажите текст сообщения после команды /broadcast"
	replyBroadcastHint    = "Рассылка будет отправлена из мини-приложения. Откройте его для продолжения."
)

// startPollingLocked runs the long-polling loop; b.mu must be held.
func (b *Bot) startPollingLocked() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	api := b.api
	b.polling = true

	go func() {
		for update := range updates {
			b.handleUpdate(api, update)
		}
	}()
}

func (b *Bot) handleUpdate(api *tgbotapi.BotAPI, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || !msg.IsCommand() {
		return
	}

	reply := commandReply(msg.Command(), msg.CommandArguments(), strconv.FormatInt(msg.From.ID, 10), b.cfg.AdminID)
	if reply == "" {
		return
	}

	if _, err := api.Send(tgbotapi.NewMessage(msg.Chat.ID, reply)); err != nil {
		b.log.Warn("Failed to reply to command",
			zap.String("command", msg.Command()),
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Error(err))
	}
}

// commandReply returns the reply for a bot command, or "" to ignore it
func commandReply(command, args, fromID, adminID string) string {
	isAdmin := adminID != "" && fromID == adminID

	switch command {
	case "start":
		if isAdmin {
			return replyAdminGreeting
		}
		return replyCustomerGreeting
	case "broadcast":
		if !isAdmin {
			return replyAdminOnly
		}
		if strings.TrimSpace(args) == "" {
			return replyBroadcastUsage
		}
		return replyBroadcastHint
	default:
		return ""
	}
}
