// Package sheets treats a Google spreadsheet as a set of named tables.
// Row 1 of every sheet is the header row; data rows are mapped by header name.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"bakery-service/internal/apperr"
	"bakery-service/pkg/config"
	"bakery-service/prometheus"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// State is the lifecycle state of the spreadsheet session
type State int

const (
	Uninitialized State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "uninitialized"
	}
}

var ErrNotConfigured = errors.New("google sheets credentials are not configured")

// Row is one data row of a sheet
type Row struct {
	// Number is the 1-based row number in the sheet; the header is row 1.
	Number int
	Values map[string]string
}

// Get returns the value of column key, or "" when absent
func (r Row) Get(key string) string {
	return r.Values[key]
}

// Client is a lazily connected Google Sheets session
type Client struct {
	cfg *config.SheetsConfig
	log *zap.Logger

	mu      sync.Mutex
	state   State
	srv     *sheets.Service
	title   string
	sheetID map[string]int64

	// newService builds the API client; replaced in tests.
	newService func(ctx context.Context) (*sheets.Service, error)
}

// New creates a client; no network calls are made until Connect or first use
func New(cfg *config.SheetsConfig, log *zap.Logger) *Client {
	c := &Client{cfg: cfg, log: log}
	c.newService = c.serviceAccountService
	return c
}

func (c *Client) serviceAccountService(ctx context.Context) (*sheets.Service, error) {
	if c.cfg.ServiceAccountEmail == "" || c.cfg.PrivateKey == "" || c.cfg.SpreadsheetID == "" {
		return nil, ErrNotConfigured
	}

	jwtConfig := &jwt.Config{
		Email:      c.cfg.ServiceAccountEmail,
		PrivateKey: []byte(c.cfg.PrivateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	// The token source outlives the request that triggered the connect.
	httpClient := jwtConfig.Client(context.Background())
	return sheets.NewService(ctx, option.WithHTTPClient(httpClient))
}

// Connect authenticates and loads spreadsheet metadata. It is idempotent;
// a failed attempt may be retried by calling Connect again.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Ready {
		return nil
	}

	if err := c.connectLocked(ctx); err != nil {
		c.state = Failed
		return apperr.Initialization("google sheets", err)
	}

	c.state = Ready
	c.log.Info("Google spreadsheet loaded",
		zap.String("title", c.title),
		zap.Int("sheets", len(c.sheetID)))
	return nil
}

func (c *Client) connectLocked(ctx context.Context) error {
	srv, err := c.newService(ctx)
	if err != nil {
		return err
	}

	c.srv = srv
	return c.loadInfoLocked(ctx)
}

func (c *Client) loadInfoLocked(ctx context.Context) error {
	done := prometheus.TrackSheetOperation("load_info", "")
	doc, err := c.srv.Spreadsheets.Get(c.cfg.SpreadsheetID).
		Fields("properties.title", "sheets.properties").
		Context(ctx).
		Do()
	done(err)
	if err != nil {
		return fmt.Errorf("load spreadsheet %s: %w", c.cfg.SpreadsheetID, err)
	}

	c.sheetID = make(map[string]int64, len(doc.Sheets))
	for _, s := range doc.Sheets {
		if s.Properties != nil {
			c.sheetID[s.Properties.Title] = s.Properties.SheetId
		}
	}
	if doc.Properties != nil {
		c.title = doc.Properties.Title
	}
	return nil
}

// Close releases the session; the next call reconnects
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.srv = nil
	c.sheetID = nil
	c.state = Uninitialized
	return nil
}

// State returns the current lifecycle state
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Title returns the spreadsheet title once connected
func (c *Client) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title
}

// HasSheet reports whether the spreadsheet contains a sheet with this title
func (c *Client) HasSheet(ctx context.Context, title string) (bool, error) {
	if err := c.Connect(ctx); err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sheetID[title]
	return ok, nil
}

func (c *Client) service(ctx context.Context, sheet string) (*sheets.Service, error) {
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.sheetID[sheet]; !ok {
		return nil, apperr.External("open sheet", fmt.Errorf("sheet %q not found", sheet))
	}
	return c.srv, nil
}

// Rows returns all non-empty data rows of a sheet in sheet order
func (c *Client) Rows(ctx context.Context, sheet string) ([]Row, error) {
	srv, err := c.service(ctx, sheet)
	if err != nil {
		return nil, err
	}

	done := prometheus.TrackSheetOperation("read", sheet)
	resp, err := srv.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, a1(sheet, "")).Context(ctx).Do()
	done(err)
	if err != nil {
		return nil, apperr.External("read sheet "+sheet, err)
	}

	return parseRows(resp.Values), nil
}

// Headers returns the header row of a sheet
func (c *Client) Headers(ctx context.Context, sheet string) ([]string, error) {
	srv, err := c.service(ctx, sheet)
	if err != nil {
		return nil, err
	}

	done := prometheus.TrackSheetOperation("read_headers", sheet)
	resp, err := srv.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, a1(sheet, "1:1")).Context(ctx).Do()
	done(err)
	if err != nil {
		return nil, apperr.External("read headers of "+sheet, err)
	}
	if len(resp.Values) == 0 {
		return nil, apperr.External("read headers of "+sheet, errors.New("header row is empty"))
	}

	return cellStrings(resp.Values[0]), nil
}

// Append adds one row; columns are ordered by the sheet's header row
func (c *Client) Append(ctx context.Context, sheet string, values map[string]string) error {
	return c.AppendRows(ctx, sheet, []map[string]string{values})
}

// AppendRows adds rows after the last data row
func (c *Client) AppendRows(ctx context.Context, sheet string, rows []map[string]string) error {
	headers, err := c.Headers(ctx, sheet)
	if err != nil {
		return err
	}

	body := &sheets.ValueRange{Values: make([][]interface{}, 0, len(rows))}
	for _, values := range rows {
		body.Values = append(body.Values, orderedCells(headers, values))
	}

	c.mu.Lock()
	srv := c.srv
	c.mu.Unlock()

	done := prometheus.TrackSheetOperation("append", sheet)
	_, err = srv.Spreadsheets.Values.Append(c.cfg.SpreadsheetID, a1(sheet, "A1"), body).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	done(err)
	if err != nil {
		return apperr.External("append to "+sheet, err)
	}
	return nil
}

// Update overwrites the row at row.Number with row.Values
func (c *Client) Update(ctx context.Context, sheet string, row Row) error {
	if row.Number < 2 {
		return apperr.External("update "+sheet, fmt.Errorf("invalid data row number %d", row.Number))
	}

	headers, err := c.Headers(ctx, sheet)
	if err != nil {
		return err
	}

	c.mu.Lock()
	srv := c.srv
	c.mu.Unlock()

	body := &sheets.ValueRange{Values: [][]interface{}{orderedCells(headers, row.Values)}}

	done := prometheus.TrackSheetOperation("update", sheet)
	_, err = srv.Spreadsheets.Values.Update(c.cfg.SpreadsheetID, a1(sheet, fmt.Sprintf("A%d", row.Number)), body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	done(err)
	if err != nil {
		return apperr.External("update "+sheet, err)
	}
	return nil
}

// EnsureSheet creates the sheet if missing and writes its header row.
// It reports whether the sheet was created.
func (c *Client) EnsureSheet(ctx context.Context, title string, headers []string) (bool, error) {
	exists, err := c.HasSheet(ctx, title)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	srv := c.srv
	c.mu.Unlock()

	if !exists {
		req := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: title},
				},
			}},
		}

		done := prometheus.TrackSheetOperation("add_sheet", title)
		resp, err := srv.Spreadsheets.BatchUpdate(c.cfg.SpreadsheetID, req).Context(ctx).Do()
		done(err)
		if err != nil {
			return false, apperr.External("add sheet "+title, err)
		}

		c.mu.Lock()
		for _, reply := range resp.Replies {
			if reply.AddSheet != nil && reply.AddSheet.Properties != nil {
				c.sheetID[title] = reply.AddSheet.Properties.SheetId
			}
		}
		if _, ok := c.sheetID[title]; !ok {
			c.sheetID[title] = 0
		}
		c.mu.Unlock()
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}

	done := prometheus.TrackSheetOperation("set_headers", title)
	_, err = srv.Spreadsheets.Values.Update(c.cfg.SpreadsheetID, a1(title, "1:1"), &sheets.ValueRange{
		Values: [][]interface{}{header},
	}).ValueInputOption("RAW").Context(ctx).Do()
	done(err)
	if err != nil {
		return !exists, apperr.External("set headers of "+title, err)
	}

	return !exists, nil
}

// a1 builds an A1 range for sheet; an empty cells part selects the whole sheet.
func a1(sheet, cells string) string {
	quoted := "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	if cells == "" {
		return quoted
	}
	return quoted + "!" + cells
}

// parseRows maps data rows to header names. Blank rows are skipped.
func parseRows(values [][]interface{}) []Row {
	if len(values) == 0 {
		return nil
	}

	headers := cellStrings(values[0])
	rows := make([]Row, 0, len(values)-1)
	for i, raw := range values[1:] {
		cells := cellStrings(raw)
		if isBlank(cells) {
			continue
		}

		row := Row{Number: i + 2, Values: make(map[string]string, len(headers))}
		for col, h := range headers {
			if h == "" {
				continue
			}
			if col < len(cells) {
				row.Values[h] = cells[col]
			} else {
				row.Values[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func orderedCells(headers []string, values map[string]string) []interface{} {
	cells := make([]interface{}, len(headers))
	for i, h := range headers {
		cells[i] = values[h]
	}
	return cells
}

func cellStrings(raw []interface{}) []string {
	out := make([]string, len(raw))
	for i, v := range raw {
		if v == nil {
			continue
		}
		out[i] = fmt.Sprint(v)
	}
	return out
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
