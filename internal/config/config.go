package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"violet/internal/core"
)

type Config struct {
	// HTTP Server
	Port string

	// Storage
	DataBackend  string // memory | sqlite
	SQLiteDBPath string

	// Defaults applied when no settings snapshot exists yet
	DefaultCurrency string

	// IncludePendingInTotals selects the headline totals policy: false is the
	// settled-only balance (income/expense/balance), true the committed-total
	// variant (total/paid/pending).
	IncludePendingInTotals bool

	LogLevel string
}

func Load() *Config {
	return &Config{
		Port:                   getEnv("PORT", "8081"),
		DataBackend:            getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath:           getEnv("SQLITE_DB_PATH", "./data/violet.db"),
		DefaultCurrency:        getEnv("DEFAULT_CURRENCY", "USD"),
		IncludePendingInTotals: getEnvBool("INCLUDE_PENDING_IN_TOTALS", false),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration and returns an error aggregating every
// problem found.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "memory", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [memory sqlite]", c.DataBackend))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if err := core.ValidateCurrency(c.DefaultCurrency); err != nil {
		errs = append(errs, fmt.Sprintf("invalid default currency '%s': must be one of %v", c.DefaultCurrency, core.Currencies))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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
