package repository

import (
	"context"
	"strconv"
	"time"

	"bakery-service/pkg/sheets"
)

// Store is the table-of-rows contract the repositories need from the spreadsheet
type Store interface {
	Rows(ctx context.Context, sheet string) ([]sheets.Row, error)
	Append(ctx context.Context, sheet string, values map[string]string) error
	Update(ctx context.Context, sheet string, row sheets.Row) error
}

// Clock returns the current time; injected so tests can control timestamps
type Clock func() time.Time

// timestampLayout matches JavaScript's Date.toISOString, which the existing sheets contain.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// newID derives an id from the current time in milliseconds.
// Ids created within the same millisecond collide.
func newID(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
