package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig
	Telegram TelegramConfig
	Sheets   SheetsConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
	Env  string
}

// TelegramConfig holds bot and mini-app configuration
type TelegramConfig struct {
	BotToken       string
	AdminID        string
	VerifyInitData bool
	Polling        bool
	BroadcastDelay time.Duration
}

// SheetsConfig holds Google Sheets configuration
type SheetsConfig struct {
	ServiceAccountEmail string
	PrivateKey          string
	SpreadsheetID       string
	Names               SheetNames
}

// SheetNames maps each table to the title of its sheet
type SheetNames struct {
	Products   string
	Categories string
	Orders     string
	Customers  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics-related configuration
type MetricsConfig struct {
	Prefix string
}

// Load loads the application configuration from environment variables
func Load() (*Config, error) {
	// .env is optional; the process environment always wins
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Telegram: TelegramConfig{
			BotToken:       getEnv("TELEGRAM_BOT_TOKEN", ""),
			AdminID:        getEnv("ADMIN_TELEGRAM_ID", ""),
			VerifyInitData: getEnvAsBool("TELEGRAM_VERIFY_INIT_DATA", false),
			Polling:        getEnvAsBool("TELEGRAM_POLLING", true),
			BroadcastDelay: getEnvAsDuration("BROADCAST_DELAY", 100*time.Millisecond),
		},
		Sheets: SheetsConfig{
			ServiceAccountEmail: getEnv("GOOGLE_SERVICE_ACCOUNT_EMAIL", ""),
			PrivateKey:          unescapeKey(getEnv("GOOGLE_PRIVATE_KEY", "")),
			SpreadsheetID:       getEnv("GOOGLE_SPREADSHEET_ID", ""),
			Names: SheetNames{
				Products:   getEnv("SHEET_PRODUCTS", "Products"),
				Categories: getEnv("SHEET_CATEGORIES", "Categories"),
				Orders:     getEnv("SHEET_ORDERS", "Orders"),
				Customers:  getEnv("SHEET_CUSTOMERS", "Customers"),
			},
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "bakery"),
		},
	}, nil
}

// TelegramEnabled reports whether the bot can be started
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != ""
}

// SheetsEnabled reports whether all Google Sheets credentials are present
func (c *Config) SheetsEnabled() bool {
	return c.Sheets.ServiceAccountEmail != "" && c.Sheets.PrivateKey != "" && c.Sheets.SpreadsheetID != ""
}

// Missing returns the names of unset variables required for full functionality
func (c *Config) Missing() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"TELEGRAM_BOT_TOKEN", c.Telegram.BotToken},
		{"ADMIN_TELEGRAM_ID", c.Telegram.AdminID},
		{"GOOGLE_SERVICE_ACCOUNT_EMAIL", c.Sheets.ServiceAccountEmail},
		{"GOOGLE_PRIVATE_KEY", c.Sheets.PrivateKey},
		{"GOOGLE_SPREADSHEET_ID", c.Sheets.SpreadsheetID},
	}
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	return missing
}

// LogFields returns the non-secret part of the configuration as zap fields
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("environment", c.Server.Env),
		zap.String("port", c.Server.Port),
		zap.Bool("telegram_enabled", c.TelegramEnabled()),
		zap.Bool("sheets_enabled", c.SheetsEnabled()),
		zap.Bool("verify_init_data", c.Telegram.VerifyInitData),
		zap.Duration("broadcast_delay", c.Telegram.BroadcastDelay),
		zap.String("spreadsheet_id", c.Sheets.SpreadsheetID),
	}
}

// Private keys are usually stored in env files with escaped newlines.
func unescapeKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}

// Helper functions to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
