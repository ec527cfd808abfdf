package handler

import (
	"bakery-service/internal/apperr"
	"bakery-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListCategories handles retrieving all categories
func (h *Handler) ListCategories(c echo.Context) error {
	log := logger.FromContext(c)

	categories, err := h.catalog.ListCategories(c.Request().Context())
	if err != nil {
		log.Error("Failed to list categories", zap.Error(err))
		return fail(c, err, "Ошибка при получении категорий")
	}

	log.Debug("Categories retrieved", zap.Int("count", len(categories)))
	return ok(c, categories, "")
}

// ListProducts handles retrieving products, optionally filtered by category
func (h *Handler) ListProducts(c echo.Context) error {
	log := logger.FromContext(c)
	categoryID := c.QueryParam("categoryId")

	products, err := h.catalog.ListProducts(c.Request().Context(), categoryID)
	if err != nil {
		log.Error("Failed to list products",
			zap.String("category_id", categoryID),
			zap.Error(err))
		return fail(c, err, "Ошибка при получении продуктов")
	}

	log.Debug("Products retrieved",
		zap.String("category_id", categoryID),
		zap.Int("count", len(products)))
	return ok(c, products, "")
}

// SearchProducts handles free-text product search
func (h *Handler) SearchProducts(c echo.Context) error {
	log := logger.FromContext(c)
	query := c.QueryParam("query")

	products, err := h.catalog.SearchProducts(c.Request().Context(), query)
	if err != nil {
		if apperr.Is(err, apperr.KindValidation) {
			return fail(c, err, "Параметр запроса не может быть пустым")
		}
		log.Error("Failed to search products", zap.String("query", query), zap.Error(err))
		return fail(c, err, "Ошибка при поиске продуктов")
	}

	log.Debug("Products found", zap.String("query", query), zap.Int("count", len(products)))
	return ok(c, products, "")
}

// GetProduct handles retrieving a single product by ID
func (h *Handler) GetProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	product, err := h.catalog.GetProductByID(c.Request().Context(), id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			log.Info("Product not found", zap.String("product_id", id))
			return fail(c, err, "Продукт не найден")
		}
		log.Error("Failed to get product", zap.String("product_id", id), zap.Error(err))
		return fail(c, err, "Ошибка при получении продукта")
	}

	return ok(c, product, "")
}
