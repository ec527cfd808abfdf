package repository

import (
	"context"
	"strings"

	"bakery-service/internal/apperr"
	"bakery-service/internal/model"
	"bakery-service/pkg/config"
	"bakery-service/pkg/sheets"
)

// CatalogRepository reads categories and products. Every call re-reads the
// sheet; there is no cache and no index.
type CatalogRepository struct {
	store Store
	names config.SheetNames
}

func NewCatalogRepository(store Store, names config.SheetNames) *CatalogRepository {
	return &CatalogRepository{store: store, names: names}
}

// ListCategories returns categories in sheet order
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.store.Rows(ctx, r.names.Categories)
	if err != nil {
		return nil, err
	}

	categories := make([]model.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, model.Category{
			ID:          row.Get("id"),
			Name:        row.Get("name"),
			ImageURL:    row.Get("imageUrl"),
			Description: row.Get("description"),
		})
	}
	return categories, nil
}

// ListProducts returns all products, or only those of categoryID when it is non-empty
func (r *CatalogRepository) ListProducts(ctx context.Context, categoryID string) ([]model.Product, error) {
	rows, err := r.store.Rows(ctx, r.names.Products)
	if err != nil {
		return nil, err
	}

	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		p := productFromRow(row)
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// SearchProducts matches text case-insensitively against name or ingredients
func (r *CatalogRepository) SearchProducts(ctx context.Context, text string) ([]model.Product, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation("search text must not be empty")
	}

	rows, err := r.store.Rows(ctx, r.names.Products)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(text)
	products := make([]model.Product, 0)
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.Get("name")), needle) ||
			strings.Contains(strings.ToLower(row.Get("ingredients")), needle) {
			products = append(products, productFromRow(row))
		}
	}
	return products, nil
}

// GetProductByID scans the full product list for an exact id match
func (r *CatalogRepository) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	products, err := r.ListProducts(ctx, "")
	if err != nil {
		return nil, err
	}

	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, apperr.NotFound("product %q not found", id)
}

func productFromRow(row sheets.Row) model.Product {
	return model.Product{
		ID:             row.Get("id"),
		CategoryID:     row.Get("categoryId"),
		Name:           row.Get("name"),
		Description:    row.Get("description"),
		Ingredients:    row.Get("ingredients"),
		Images:         splitImages(row.Get("images")),
		IsAvailable:    row.Get("isAvailable") == "TRUE",
		Price:          row.Get("price"),
		AdditionalInfo: row.Get("additionalInfo"),
	}
}

func splitImages(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	images := make([]string, 0, len(parts))
	for _, p := range parts {
		images = append(images, strings.TrimSpace(p))
	}
	return images
}
