package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"

	"wagewise/internal/currency"
)

// FileEnv names the optional TOML file layered under environment variables.
const FileEnv = "WAGEWISE_CONFIG_FILE"

const minSessionSecret = 32

type Config struct {
	// HTTP Server
	Port          string
	SecureCookies bool

	// Database
	DataBackend  string
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets mirror
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Worker
	SyncBatchSize int
	SyncInterval  time.Duration

	// Sessions
	SessionSecret string
	SessionTTL    time.Duration

	// Coach
	GeminiAPIKey           string
	GeminiModel            string
	CoachRequestsPerMinute int

	RateLimitPerMinute   int
	DefaultCurrency      string
	DefaultMonthlyBudget decimal.Decimal
	LogLevel             string
}

// fileConfig mirrors Config in the TOML file. Durations and amounts are
// strings there ("30s", "1000").
type fileConfig struct {
	Port                     string `toml:"port"`
	SecureCookies            *bool  `toml:"secure_cookies"`
	DataBackend              string `toml:"data_backend"`
	SQLiteDBPath             string `toml:"sqlite_db_path"`
	AMQPURL                  string `toml:"amqp_url"`
	AMQPExchange             string `toml:"amqp_exchange"`
	AMQPQueue                string `toml:"amqp_queue"`
	GoogleSpreadsheetID      string `toml:"google_spreadsheet_id"`
	GoogleSheetName          string `toml:"google_sheet_name"`
	GoogleServiceAccountFile string `toml:"google_service_account_file"`
	SyncBatchSize            int    `toml:"sync_batch_size"`
	SyncInterval             string `toml:"sync_interval"`
	SessionTTL               string `toml:"session_ttl"`
	GeminiModel              string `toml:"gemini_model"`
	CoachRequestsPerMinute   int    `toml:"coach_requests_per_minute"`
	RateLimitPerMinute       int    `toml:"rate_limit_per_minute"`
	DefaultCurrency          string `toml:"default_currency"`
	DefaultMonthlyBudget     string `toml:"default_monthly_budget"`
	LogLevel                 string `toml:"log_level"`
}

func defaults() *Config {
	return &Config{
		Port:                   "8081",
		DataBackend:            "sqlite",
		SQLiteDBPath:           "./data/wagewise.db",
		AMQPExchange:           "wagewise",
		AMQPQueue:              "ledger_events",
		GoogleSheetName:        "Ledger",
		SyncBatchSize:          10,
		SyncInterval:           30 * time.Second,
		SessionTTL:             7 * 24 * time.Hour,
		GeminiModel:            "gemini-2.5-flash",
		CoachRequestsPerMinute: 6,
		RateLimitPerMinute:     60,
		DefaultCurrency:        currency.DefaultCode,
		DefaultMonthlyBudget:   decimal.NewFromInt(1000),
		LogLevel:               "info",
	}
}

// Load builds the configuration from defaults, the optional TOML file named
// by WAGEWISE_CONFIG_FILE, then environment variables. Secrets are only read
// from the environment.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv(FileEnv); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		var fc fileConfig
		if err := toml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		if err := cfg.applyFile(fc); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyFile(fc fileConfig) error {
	setString(&c.Port, fc.Port)
	if fc.SecureCookies != nil {
		c.SecureCookies = *fc.SecureCookies
	}
	setString(&c.DataBackend, fc.DataBackend)
	setString(&c.SQLiteDBPath, fc.SQLiteDBPath)
	setString(&c.AMQPURL, fc.AMQPURL)
	setString(&c.AMQPExchange, fc.AMQPExchange)
	setString(&c.AMQPQueue, fc.AMQPQueue)
	setString(&c.GoogleSpreadsheetID, fc.GoogleSpreadsheetID)
	setString(&c.GoogleSheetName, fc.GoogleSheetName)
	setString(&c.GoogleServiceAccountFile, fc.GoogleServiceAccountFile)
	setString(&c.GeminiModel, fc.GeminiModel)
	setString(&c.DefaultCurrency, fc.DefaultCurrency)
	setString(&c.LogLevel, fc.LogLevel)
	if fc.SyncBatchSize != 0 {
		c.SyncBatchSize = fc.SyncBatchSize
	}
	if fc.CoachRequestsPerMinute != 0 {
		c.CoachRequestsPerMinute = fc.CoachRequestsPerMinute
	}
	if fc.RateLimitPerMinute != 0 {
		c.RateLimitPerMinute = fc.RateLimitPerMinute
	}

	var err error
	if fc.SyncInterval != "" {
		if c.SyncInterval, err = time.ParseDuration(fc.SyncInterval); err != nil {
			return fmt.Errorf("sync_interval: %w", err)
		}
	}
	if fc.SessionTTL != "" {
		if c.SessionTTL, err = time.ParseDuration(fc.SessionTTL); err != nil {
			return fmt.Errorf("session_ttl: %w", err)
		}
	}
	if fc.DefaultMonthlyBudget != "" {
		if c.DefaultMonthlyBudget, err = decimal.NewFromString(fc.DefaultMonthlyBudget); err != nil {
			return fmt.Errorf("default_monthly_budget: %w", err)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.SecureCookies = getEnvBool("COOKIE_SECURE", c.SecureCookies)
	c.DataBackend = getEnv("DATA_BACKEND", c.DataBackend)
	c.SQLiteDBPath = getEnv("SQLITE_DB_PATH", c.SQLiteDBPath)

	c.AMQPURL = getEnv("AMQP_URL", c.AMQPURL)
	c.AMQPExchange = getEnv("AMQP_EXCHANGE", c.AMQPExchange)
	c.AMQPQueue = getEnv("AMQP_QUEUE", c.AMQPQueue)

	c.GoogleSpreadsheetID = getEnv("GOOGLE_SPREADSHEET_ID", c.GoogleSpreadsheetID)
	c.GoogleSheetName = getEnv("GOOGLE_SHEET_NAME", c.GoogleSheetName)
	c.GoogleServiceAccountJSON = getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", c.GoogleServiceAccountJSON)
	c.GoogleServiceAccountFile = getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", c.GoogleServiceAccountFile)

	c.SyncBatchSize = getEnvInt("SYNC_BATCH_SIZE", c.SyncBatchSize)
	c.SyncInterval = getEnvDuration("SYNC_INTERVAL", c.SyncInterval)

	c.SessionSecret = getEnv("SESSION_SECRET", c.SessionSecret)
	c.SessionTTL = getEnvDuration("SESSION_TTL", c.SessionTTL)

	c.GeminiAPIKey = getEnv("GEMINI_API_KEY", c.GeminiAPIKey)
	c.GeminiModel = getEnv("GEMINI_MODEL", c.GeminiModel)
	c.CoachRequestsPerMinute = getEnvInt("COACH_REQUESTS_PER_MINUTE", c.CoachRequestsPerMinute)

	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)
	c.DefaultCurrency = strings.ToUpper(getEnv("DEFAULT_CURRENCY", c.DefaultCurrency))
	c.DefaultMonthlyBudget = getEnvDecimal("DEFAULT_MONTHLY_BUDGET", c.DefaultMonthlyBudget)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// MirrorEnabled reports whether ledger changes are mirrored to a spreadsheet.
func (c *Config) MirrorEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

// Level parses LogLevel; unknown values fall back to info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate Google Sheets mirror if enabled
	if c.MirrorEnabled() {
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when a spreadsheet ID is set")
		}
		hasJSON := c.GoogleServiceAccountJSON != ""
		hasFile := c.GoogleServiceAccountFile != ""
		if !hasJSON && !hasFile {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided for the sheets mirror")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	// Validate worker configuration
	if c.SyncBatchSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid sync batch size %d: must be at least 1", c.SyncBatchSize))
	} else if c.SyncBatchSize > 1000 {
		errors = append(errors, fmt.Sprintf("invalid sync batch size %d: must be at most 1000", c.SyncBatchSize))
	}

	if c.SyncInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at least 1 second", c.SyncInterval))
	} else if c.SyncInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at most 24 hours", c.SyncInterval))
	}

	// Validate sessions
	if c.DataBackend != "memory" && len(c.SessionSecret) < minSessionSecret {
		errors = append(errors, fmt.Sprintf("SESSION_SECRET must be at least %d bytes", minSessionSecret))
	}
	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}

	// Validate limits
	if c.CoachRequestsPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid coach requests per minute %d: must be at least 1", c.CoachRequestsPerMinute))
	}
	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit per minute %d: must be at least 1", c.RateLimitPerMinute))
	}

	// Validate money defaults
	if !currency.Valid(c.DefaultCurrency) {
		errors = append(errors, fmt.Sprintf("invalid default currency '%s'", c.DefaultCurrency))
	}
	if c.DefaultMonthlyBudget.IsNegative() {
		errors = append(errors, fmt.Sprintf("invalid default monthly budget %s: must not be negative", c.DefaultMonthlyBudget))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}
