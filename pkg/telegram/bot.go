// Package telegram wraps the bot session used for notifications.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"bakery-service/internal/apperr"
	"bakery-service/pkg/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// ModeMarkdown is the legacy Markdown parse mode used by notification templates
const ModeMarkdown = tgbotapi.ModeMarkdown

// State is the lifecycle state of the bot session
type State int

const (
	Uninitialized State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "uninitialized"
	}
}

var ErrNotConfigured = errors.New("telegram bot token is not configured")

// Message is an outgoing chat message
type Message struct {
	ChatID    string
	Text      string
	ParseMode string
}

// Bot is a lazily started Telegram bot session
type Bot struct {
	cfg *config.TelegramConfig
	log *zap.Logger

	mu      sync.Mutex
	state   State
	api     *tgbotapi.BotAPI
	polling bool

	// endpoint is the Bot API URL template; overridden in tests.
	endpoint string
	client   tgbotapi.HTTPClient
}

// New creates a bot; nothing is contacted until Connect or the first send
func New(cfg *config.TelegramConfig, log *zap.Logger) *Bot {
	return &Bot{
		cfg:      cfg,
		log:      log,
		endpoint: tgbotapi.APIEndpoint,
		client:   &http.Client{},
	}
}

// Connect authenticates the token and, when polling is enabled, starts the
// command loop. It is idempotent.
func (b *Bot) Connect(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Ready {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return apperr.Initialization("telegram bot", err)
	}

	if b.cfg.BotToken == "" {
		b.state = Failed
		return apperr.Initialization("telegram bot", ErrNotConfigured)
	}

	api, err := tgbotapi.NewBotAPIWithClient(b.cfg.BotToken, b.endpoint, b.client)
	if err != nil {
		b.state = Failed
		return apperr.Initialization("telegram bot", err)
	}

	b.api = api
	b.state = Ready
	b.log.Info("Telegram bot started",
		zap.String("username", api.Self.UserName),
		zap.Bool("polling", b.cfg.Polling))

	if b.cfg.Polling {
		b.startPollingLocked()
	}
	return nil
}

// Close stops the command loop and releases the session
func (b *Bot) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != Ready {
		return nil
	}

	// The polling goroutine exits after its current long-poll returns.
	if b.polling {
		b.api.StopReceivingUpdates()
		b.polling = false
	}

	b.api = nil
	b.state = Uninitialized
	b.log.Info("Telegram bot stopped")
	return nil
}

// State returns the current lifecycle state
func (b *Bot) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Username returns the bot's username once connected
func (b *Bot) Username() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.api == nil {
		return ""
	}
	return b.api.Self.UserName
}

// Send delivers one message. The session must be connected.
func (b *Bot) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	api := b.api
	b.mu.Unlock()
	if api == nil {
		return apperr.Initialization("telegram bot", errors.New("session is not started"))
	}

	chatID, err := strconv.ParseInt(msg.ChatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", msg.ChatID, err)
	}

	out := tgbotapi.NewMessage(chatID, msg.Text)
	out.ParseMode = msg.ParseMode
	if _, err := api.Send(out); err != nil {
		return fmt.Errorf("send to %d: %w", chatID, err)
	}
	return nil
}
