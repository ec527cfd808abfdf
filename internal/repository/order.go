package repository

import (
	"context"
	"strings"
	"time"

	"bakery-service/internal/apperr"
	"bakery-service/internal/model"
	"bakery-service/pkg/config"
	"bakery-service/prometheus"
)

// OrderRepository appends orders to the Orders sheet
type OrderRepository struct {
	store Store
	sheet string
	now   Clock
}

func NewOrderRepository(store Store, names config.SheetNames) *OrderRepository {
	return &OrderRepository{store: store, sheet: names.Orders, now: time.Now}
}

// WithClock replaces the time source
func (r *OrderRepository) WithClock(now Clock) *OrderRepository {
	r.now = now
	return r
}

// Create validates the input and records a new order with status "new".
// Field values are stored as given; dates and enums are not checked.
func (r *OrderRepository) Create(ctx context.Context, in model.OrderInput) (*model.Order, error) {
	if missing := missingOrderFields(in); len(missing) > 0 {
		return nil, apperr.Validation("missing required fields (%s)", strings.Join(missing, ", "))
	}

	now := r.now()
	order := model.Order{
		ID:                newID(now),
		CustomerID:        in.CustomerID.String(),
		CustomerName:      in.CustomerName,
		CustomerContact:   in.CustomerContact,
		ProductID:         in.ProductID,
		ProductName:       in.ProductName,
		DeliveryDate:      in.DeliveryDate,
		Packaging:         in.Packaging,
		DeliveryMethod:    in.DeliveryMethod,
		AdditionalComment: in.AdditionalComment,
		CreatedAt:         formatTimestamp(now),
		Status:            model.OrderStatusNew,
	}

	if err := r.store.Append(ctx, r.sheet, orderValues(order)); err != nil {
		return nil, err
	}
	prometheus.RecordOrderCreated()
	return &order, nil
}

func missingOrderFields(in model.OrderInput) []string {
	required := []struct {
		name  string
		value string
	}{
		{"productId", in.ProductID},
		{"productName", in.ProductName},
		{"customerName", in.CustomerName},
		{"customerContact", in.CustomerContact},
		{"deliveryDate", in.DeliveryDate},
		{"packaging", in.Packaging},
		{"deliveryMethod", in.DeliveryMethod},
	}

	var missing []string
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func orderValues(o model.Order) map[string]string {
	return map[string]string{
		"id":                o.ID,
		"customerId":        o.CustomerID,
		"customerName":      o.CustomerName,
		"customerContact":   o.CustomerContact,
		"productId":         o.ProductID,
		"productName":       o.ProductName,
		"deliveryDate":      o.DeliveryDate,
		"packaging":         o.Packaging,
		"deliveryMethod":    o.DeliveryMethod,
		"additionalComment": o.AdditionalComment,
		"createdAt":         o.CreatedAt,
		"status":            o.Status,
	}
}
