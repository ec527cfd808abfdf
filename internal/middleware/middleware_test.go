package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"bakery-service/pkg/config"
	"bakery-service/pkg/initdata"
	"bakery-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const testToken = "123456:TEST-TOKEN"

func init() {
	logger.SetLogger(zap.NewNop())
}

func signedInitData(token string) string {
	values := url.Values{}
	values.Set("auth_date", "1714560000")
	values.Set("query_id", "AAH")
	values.Set("user", `{"id":100,"first_name":"Анна","username":"anna"}`)
	values.Set("hash", initdata.Sign(values, token))
	return values.Encode()
}

// serve runs one request through mw and reports the status and the user seen by the handler
func serve(t *testing.T, mw echo.MiddlewareFunc, method, header string) (int, *initdata.User) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/api/orders", strings.NewReader("{}"))
	if header != "" {
		req.Header.Set(InitDataHeader, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *initdata.User
	handler := mw(func(c echo.Context) error {
		seen, _ = UserFromContext(c)
		return c.NoContent(http.StatusNoContent)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	return rec.Code, seen
}

func TestInitDataEnforced(t *testing.T) {
	mw := InitDataMiddleware(&config.TelegramConfig{BotToken: testToken, VerifyInitData: true})

	tests := []struct {
		name   string
		method string
		header string
		want   int
	}{
		{"get bypasses", http.MethodGet, "", http.StatusNoContent},
		{"missing", http.MethodPost, "", http.StatusUnauthorized},
		{"tampered", http.MethodPost, strings.Replace(signedInitData(testToken), "AAH", "AAX", 1), http.StatusUnauthorized},
		{"wrong token", http.MethodPost, signedInitData("other:token"), http.StatusUnauthorized},
		{"valid", http.MethodPost, signedInitData(testToken), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := serve(t, mw, tt.method, tt.header); got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInitDataAttachesUser(t *testing.T) {
	mw := InitDataMiddleware(&config.TelegramConfig{BotToken: testToken})

	_, user := serve(t, mw, http.MethodPost, signedInitData(testToken))
	if user == nil || user.ID != 100 || user.Username != "anna" {
		t.Fatalf("user = %+v, want id 100", user)
	}
}

func TestInitDataBypassed(t *testing.T) {
	mw := InitDataMiddleware(&config.TelegramConfig{BotToken: testToken})

	for _, header := range []string{"", "hash=deadbeef", signedInitData("other:token")} {
		code, user := serve(t, mw, http.MethodPost, header)
		if code != http.StatusNoContent {
			t.Errorf("header %q: status = %d, want pass-through", header, code)
		}
		if user != nil {
			t.Errorf("header %q: unverified user attached", header)
		}
	}
}

func TestInitDataWithoutToken(t *testing.T) {
	mw := InitDataMiddleware(&config.TelegramConfig{VerifyInitData: true})

	if code, _ := serve(t, mw, http.MethodPost, signedInitData("")); code != http.StatusUnauthorized {
		t.Errorf("status = %d, data signed with an empty token must be rejected", code)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()

	var seen string
	handler := RequestIDMiddleware(func(c echo.Context) error {
		seen, _ = c.Get(logger.RequestIDKey).(string)
		if _, ok := c.Get(logger.ContextKey).(*zap.Logger); !ok {
			t.Error("request logger not set")
		}
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatal(err)
	}
	if seen == "" || rec.Header().Get(logger.RequestIDKey) != seen {
		t.Errorf("request id %q not echoed in response header %q", seen, rec.Header().Get(logger.RequestIDKey))
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(logger.RequestIDKey, "upstream-id")
	rec = httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatal(err)
	}
	if seen != "upstream-id" {
		t.Errorf("request id = %q, want the upstream id", seen)
	}
}
