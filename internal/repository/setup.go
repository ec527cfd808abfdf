package repository

import (
	"context"

	"bakery-service/pkg/config"
	"bakery-service/pkg/sheets"

	"go.uber.org/zap"
)

// Provisioner creates sheets and writes their header rows
type Provisioner interface {
	EnsureSheet(ctx context.Context, title string, headers []string) (bool, error)
	Rows(ctx context.Context, sheet string) ([]sheets.Row, error)
	AppendRows(ctx context.Context, sheet string, rows []map[string]string) error
}

// Layout is a sheet title with its header row
type Layout struct {
	Title   string
	Headers []string
}

// Layouts returns the four sheets the service reads and writes
func Layouts(names config.SheetNames) []Layout {
	return []Layout{
		{names.Categories, []string{"id", "name", "imageUrl", "description"}},
		{names.Products, []string{"id", "categoryId", "name", "description", "ingredients", "images", "isAvailable", "price", "additionalInfo"}},
		{names.Customers, []string{"id", "telegramId", "name", "username", "phone", "registrationDate", "lastActivity"}},
		{names.Orders, []string{"id", "customerId", "customerName", "customerContact", "productId", "productName", "deliveryDate", "packaging", "deliveryMethod", "additionalComment", "createdAt", "status"}},
	}
}

var sampleCategories = []map[string]string{
	{"id": "1", "name": "Торты", "imageUrl": "https://example.com/cakes.jpg", "description": "Праздничные торты на заказ"},
	{"id": "2", "name": "Пирожные", "imageUrl": "https://example.com/pastries.jpg", "description": "Вкусные маленькие пирожные"},
}

var sampleProducts = []map[string]string{
	{
		"id": "1", "categoryId": "1", "name": `Торт "Наполеон"`,
		"description":    "Классический торт с заварным кремом",
		"ingredients":    "Мука, масло, молоко, яйца, сахар",
		"images":         "https://example.com/napoleon1.jpg,https://example.com/napoleon2.jpg",
		"isAvailable":    "TRUE",
		"price":          "1500",
		"additionalInfo": "Срок изготовления: 1-2 дня",
	},
	{
		"id": "2", "categoryId": "1", "name": `Торт "Медовик"`,
		"description":    "Нежный медовый торт со сметанным кремом",
		"ingredients":    "Мед, мука, сметана, сахар, масло",
		"images":         "https://example.com/medovik.jpg",
		"isAvailable":    "TRUE",
		"price":          "1800",
		"additionalInfo": "Срок изготовления: 1-2 дня",
	},
	{
		"id": "3", "categoryId": "2", "name": "Эклеры",
		"description":    "Французские пирожные с заварным кремом",
		"ingredients":    "Мука, масло, вода, яйца, сахар",
		"images":         "https://example.com/eclair.jpg",
		"isAvailable":    "TRUE",
		"price":          "200",
		"additionalInfo": "Минимальный заказ: 5 шт.",
	},
}

// SetupReport summarizes a Setup run
type SetupReport struct {
	Created []string
	Seeded  []string
}

// Setup creates missing sheets, writes every header row and seeds sample
// categories and products into empty sheets.
func Setup(ctx context.Context, p Provisioner, names config.SheetNames, log *zap.Logger) (*SetupReport, error) {
	report := &SetupReport{}

	for _, layout := range Layouts(names) {
		created, err := p.EnsureSheet(ctx, layout.Title, layout.Headers)
		if err != nil {
			return report, err
		}
		if created {
			report.Created = append(report.Created, layout.Title)
			log.Info("Sheet created", zap.String("sheet", layout.Title))
		}
	}

	seeds := []struct {
		sheet string
		rows  []map[string]string
	}{
		{names.Categories, sampleCategories},
		{names.Products, sampleProducts},
	}
	for _, seed := range seeds {
		existing, err := p.Rows(ctx, seed.sheet)
		if err != nil {
			return report, err
		}
		if len(existing) > 0 {
			log.Info("Sheet already has data, skipping sample rows",
				zap.String("sheet", seed.sheet),
				zap.Int("rows", len(existing)))
			continue
		}
		if err := p.AppendRows(ctx, seed.sheet, seed.rows); err != nil {
			return report, err
		}
		report.Seeded = append(report.Seeded, seed.sheet)
		log.Info("Sample rows added", zap.String("sheet", seed.sheet), zap.Int("rows", len(seed.rows)))
	}

	return report, nil
}
