package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"bakery-service/internal/apperr"
	"bakery-service/pkg/config"

	"go.uber.org/zap"
)

// fakeBotAPI answers getMe and sendMessage; chat "13" has blocked the bot
type fakeBotAPI struct {
	mu   sync.Mutex
	sent []map[string]string
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	r.ParseForm()

	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		json.NewEncoder(w).Encode(map[string]any{
			"ok":     true,
			"result": map[string]any{"id": 1, "is_bot": true, "first_name": "Bakery", "username": "bakery_bot"},
		})
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		if r.Form.Get("chat_id") == "13" {
			json.NewEncoder(w).Encode(map[string]any{
				"ok": false, "error_code": 403, "description": "Forbidden: bot was blocked by the user",
			})
			return
		}
		f.mu.Lock()
		f.sent = append(f.sent, map[string]string{
			"chat_id":    r.Form.Get("chat_id"),
			"text":       r.Form.Get("text"),
			"parse_mode": r.Form.Get("parse_mode"),
		})
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{
			"ok":     true,
			"result": map[string]any{"message_id": 1, "date": 0, "chat": map[string]any{"id": 1, "type": "private"}},
		})
	default:
		http.NotFound(w, r)
	}
}

func newTestBot(t *testing.T, api http.Handler, token string) *Bot {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	b := New(&config.TelegramConfig{BotToken: token, AdminID: "42"}, zap.NewNop())
	b.endpoint = srv.URL + "/bot%s/%s"
	b.client = srv.Client()
	return b
}

func TestConnectAndSend(t *testing.T) {
	api := &fakeBotAPI{}
	b := newTestBot(t, api, "123:abc")

	if err := b.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if b.State() != Ready || b.Username() != "bakery_bot" {
		t.Fatalf("State() = %v, Username() = %q", b.State(), b.Username())
	}

	err := b.Send(context.Background(), Message{ChatID: "42", Text: "*hi*", ParseMode: ModeMarkdown})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if len(api.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(api.sent))
	}
	if got := api.sent[0]; got["chat_id"] != "42" || got["text"] != "*hi*" || got["parse_mode"] != "Markdown" {
		t.Errorf("unexpected message: %v", got)
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if b.State() != Uninitialized {
		t.Errorf("State() after Close = %v", b.State())
	}
}

func TestSendFailures(t *testing.T) {
	b := newTestBot(t, &fakeBotAPI{}, "123:abc")

	err := b.Send(context.Background(), Message{ChatID: "42", Text: "x"})
	if !apperr.Is(err, apperr.KindInitialization) {
		t.Errorf("Send() before Connect: err = %v, want initialization error", err)
	}

	if err := b.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := b.Send(context.Background(), Message{ChatID: "13", Text: "x"}); err == nil {
		t.Error("Send() to a blocked chat should fail")
	}
	if err := b.Send(context.Background(), Message{ChatID: "@nobody", Text: "x"}); err == nil {
		t.Error("Send() with a non-numeric chat id should fail")
	}
}

func TestConnectWithoutToken(t *testing.T) {
	b := New(&config.TelegramConfig{}, zap.NewNop())

	err := b.Connect(context.Background())
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Connect() error = %v, want ErrNotConfigured", err)
	}
	if b.State() != Failed {
		t.Errorf("State() = %v, want failed", b.State())
	}
}

func TestCommandReply(t *testing.T) {
	tests := []struct {
		name    string
		command string
		args    string
		from    string
		want    string
	}{
		{"admin start", "start", "", "42", replyAdminGreeting},
		{"customer start", "start", "", "7", replyCustomerGreeting},
		{"customer broadcast", "broadcast", "hello", "7", replyAdminOnly},
		{"admin broadcast without text", "broadcast", "  ", "42", replyBroadcastUsage},
		{"admin broadcast", "broadcast", "Fresh croissants!", "42", replyBroadcastHint},
		{"unknown command", "help", "", "42", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := commandReply(tt.command, tt.args, tt.from, "42"); got != tt.want {
				t.Errorf("commandReply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandReplyWithoutAdmin(t *testing.T) {
	if got := commandReply("start", "", "", ""); got != replyCustomerGreeting {
		t.Errorf("empty admin id must not match an empty sender: got %q", got)
	}
}
