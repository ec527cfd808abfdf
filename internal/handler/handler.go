package handler

import (
	"context"
	"net/http"

	"bakery-service/internal/apperr"
	"bakery-service/internal/model"

	"github.com/labstack/echo/v4"
)

// Catalog serves category and product reads
type Catalog interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListProducts(ctx context.Context, categoryID string) ([]model.Product, error)
	SearchProducts(ctx context.Context, text string) ([]model.Product, error)
	GetProductByID(ctx context.Context, id string) (*model.Product, error)
}

// Customers stores customer profiles
type Customers interface {
	Upsert(ctx context.Context, in model.CustomerInput) (*model.Customer, error)
	List(ctx context.Context) ([]model.Customer, error)
}

// Orders records placed orders
type Orders interface {
	Create(ctx context.Context, in model.OrderInput) (*model.Order, error)
}

// Notifier delivers Telegram messages
type Notifier interface {
	SendOrderNotification(ctx context.Context, order *model.Order) (bool, error)
	SendOrderConfirmation(ctx context.Context, order *model.Order) (bool, error)
	NotifyAdmin(ctx context.Context, text string) (bool, error)
	Broadcast(ctx context.Context, recipientIDs []string, text string) ([]model.DeliveryResult, error)
}

// Handler holds the dependencies of the API routes
type Handler struct {
	catalog   Catalog
	customers Customers
	orders    Orders
	notifier  Notifier
	adminID   string
}

func New(catalog Catalog, customers Customers, orders Orders, notifier Notifier, adminID string) *Handler {
	return &Handler{
		catalog:   catalog,
		customers: customers,
		orders:    orders,
		notifier:  notifier,
		adminID:   adminID,
	}
}

// Register mounts the API routes on g. The guards wrap only the
// state-changing routes.
func (h *Handler) Register(g *echo.Group, guards ...echo.MiddlewareFunc) {
	g.GET("/categories", h.ListCategories)
	g.GET("/products", h.ListProducts)
	g.GET("/products/search", h.SearchProducts)
	g.GET("/products/:id", h.GetProduct)

	g.POST("/orders", h.CreateOrder, guards...)
	g.POST("/customers", h.SaveCustomer, guards...)

	g.POST("/messages/admin", h.SendMessageToAdmin, guards...)
	g.POST("/messages/broadcast", h.Broadcast, guards...)
}

func ok(c echo.Context, data any, message string) error {
	return c.JSON(http.StatusOK, model.Response{Success: true, Data: data, Message: message})
}

// fail answers with the status apperr maps err to and a user-facing message
func fail(c echo.Context, err error, message string) error {
	return c.JSON(apperr.Status(err), model.Response{Success: false, Error: message})
}
