package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bakery-service/internal/handler"
	"bakery-service/internal/model"
	"bakery-service/pkg/config"
	"bakery-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func init() {
	logger.SetLogger(zap.NewNop())
}

type stubCatalog struct{}

func (stubCatalog) ListCategories(context.Context) ([]model.Category, error) {
	return []model.Category{}, nil
}

func (stubCatalog) ListProducts(context.Context, string) ([]model.Product, error) {
	panic("sheet exploded")
}

func (stubCatalog) SearchProducts(context.Context, string) ([]model.Product, error) {
	return nil, errors.New("unused")
}

func (stubCatalog) GetProductByID(context.Context, string) (*model.Product, error) {
	return nil, errors.New("unused")
}

func newTestServer(verify bool) *echo.Echo {
	cfg := &config.Config{Telegram: config.TelegramConfig{BotToken: "1:x", VerifyInitData: verify}}
	h := handler.New(stubCatalog{}, nil, nil, nil, "42")
	return New(cfg, h)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) model.Response {
	t.Helper()
	var resp model.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestUnknownRoute(t *testing.T) {
	e := newTestServer(false)

	for _, target := range []string{"/api/unknown", "/nothing/here"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		resp := decode(t, rec)
		if rec.Code != http.StatusNotFound || resp.Success || resp.Error != notFoundMessage {
			t.Errorf("%s: status = %d, body = %+v", target, rec.Code, resp)
		}
	}
}

func TestPanicBecomesInternalError(t *testing.T) {
	e := newTestServer(false)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	resp := decode(t, rec)
	if rec.Code != http.StatusInternalServerError || resp.Error != internalErrorMessage {
		t.Errorf("status = %d, body = %+v", rec.Code, resp)
	}
}

func TestHealthAndCORS(t *testing.T) {
	e := newTestServer(true)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(echo.HeaderOrigin, "https://web.telegram.org")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(echo.HeaderAccessControlAllowOrigin) != "*" {
		t.Errorf("missing CORS header")
	}
	if rec.Header().Get(logger.RequestIDKey) == "" {
		t.Errorf("missing request id header")
	}
}

func TestInitDataEnforcedOnAPI(t *testing.T) {
	e := newTestServer(true)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader("{}"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET status = %d, want 200", rec.Code)
	}
}

func TestUnknownAPIRouteIgnoresInitData(t *testing.T) {
	e := newTestServer(true)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/does-not-exist", strings.NewReader("{}"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	e.ServeHTTP(rec, req)

	resp := decode(t, rec)
	if rec.Code != http.StatusNotFound || resp.Error != notFoundMessage {
		t.Errorf("status = %d, body = %+v; want the 404 envelope", rec.Code, resp)
	}
}
