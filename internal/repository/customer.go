package repository

import (
	"context"
	"strings"
	"time"

	"bakery-service/internal/apperr"
	"bakery-service/internal/model"
	"bakery-service/pkg/config"
	"bakery-service/pkg/sheets"
	"bakery-service/prometheus"
)

// CustomerRepository upserts customers keyed by Telegram id
type CustomerRepository struct {
	store Store
	sheet string
	now   Clock
}

func NewCustomerRepository(store Store, names config.SheetNames) *CustomerRepository {
	return &CustomerRepository{store: store, sheet: names.Customers, now: time.Now}
}

// WithClock replaces the time source
func (r *CustomerRepository) WithClock(now Clock) *CustomerRepository {
	r.now = now
	return r
}

// Upsert updates the customer with the same telegramId or appends a new one
func (r *CustomerRepository) Upsert(ctx context.Context, in model.CustomerInput) (*model.Customer, error) {
	telegramID := strings.TrimSpace(in.TelegramID.String())
	if telegramID == "" || in.Name == "" {
		return nil, apperr.Validation("missing required fields (telegramId, name)")
	}

	rows, err := r.store.Rows(ctx, r.sheet)
	if err != nil {
		return nil, err
	}

	now := r.now()
	for _, row := range rows {
		if row.Get("telegramId") != telegramID {
			continue
		}

		updated := model.Customer{
			ID:               row.Get("id"),
			TelegramID:       telegramID,
			Name:             in.Name,
			Username:         in.Username,
			Phone:            in.Phone,
			RegistrationDate: row.Get("registrationDate"),
			LastActivity:     formatTimestamp(now),
		}
		if err := r.store.Update(ctx, r.sheet, sheets.Row{Number: row.Number, Values: customerValues(updated)}); err != nil {
			return nil, err
		}
		prometheus.RecordCustomerUpsert("updated")
		return &updated, nil
	}

	created := model.Customer{
		ID:               newID(now),
		TelegramID:       telegramID,
		Name:             in.Name,
		Username:         in.Username,
		Phone:            in.Phone,
		RegistrationDate: formatTimestamp(now),
		LastActivity:     formatTimestamp(now),
	}
	if err := r.store.Append(ctx, r.sheet, customerValues(created)); err != nil {
		return nil, err
	}
	prometheus.RecordCustomerUpsert("created")
	return &created, nil
}

// List returns every registered customer
func (r *CustomerRepository) List(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.store.Rows(ctx, r.sheet)
	if err != nil {
		return nil, err
	}

	customers := make([]model.Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, model.Customer{
			ID:               row.Get("id"),
			TelegramID:       row.Get("telegramId"),
			Name:             row.Get("name"),
			Username:         row.Get("username"),
			Phone:            row.Get("phone"),
			RegistrationDate: row.Get("registrationDate"),
			LastActivity:     row.Get("lastActivity"),
		})
	}
	return customers, nil
}

func customerValues(c model.Customer) map[string]string {
	return map[string]string{
		"id":               c.ID,
		"telegramId":       c.TelegramID,
		"name":             c.Name,
		"username":         c.Username,
		"phone":            c.Phone,
		"registrationDate": c.RegistrationDate,
		"lastActivity":     c.LastActivity,
	}
}
