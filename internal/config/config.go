package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/eliritchie15/FinanceApp-BaylorSurfClub/internal/core"
)

type Config struct {
	// HTTP Server
	Port string

	// Ledger backend selection
	LedgerBackend string
	SQLiteDBPath  string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets season mirror
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Worker
	MirrorInterval time.Duration

	// Fee schedule and season rules
	Pricing core.Pricing
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		LedgerBackend: getEnv("LEDGER_BACKEND", "memory"),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/surfclub.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "surfclub"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "season_archives"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Seasons"),

		MirrorInterval: getEnvDuration("MIRROR_INTERVAL", 5*time.Minute),

		Pricing: loadPricing(),
	}

	return cfg
}

func loadPricing() core.Pricing {
	p := core.DefaultPricing()
	p.CapitalTarget = getEnvMoney("CAPITAL_TARGET", p.CapitalTarget)
	p.SessionPrice = getEnvMoney("SESSION_PRICE", p.SessionPrice)
	p.FullSeasonPrice = getEnvMoney("FULL_SEASON_PRICE", p.FullSeasonPrice)
	p.BeachPassPrice = getEnvMoney("BEACH_PASS_PRICE", p.BeachPassPrice)
	p.DefaultSeasonLength = getEnvInt("DEFAULT_SEASON_LENGTH", p.DefaultSeasonLength)
	p.ExtendedSeasonLength = getEnvInt("EXTENDED_SEASON_LENGTH", p.ExtendedSeasonLength)
	return p
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

	// Validate ledger backend
	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.LedgerBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid ledger backend '%s': must be one of %v", c.LedgerBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.LedgerBackend == "sqlite" {
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

	// Validate Google Sheets mirror configuration
	if c.GoogleSpreadsheetID != "" && c.GoogleSheetName == "" {
		errors = append(errors, "Google sheet name cannot be empty when a spreadsheet ID is provided")
	}

	// Validate worker configuration
	if c.MirrorInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid mirror interval %v: must be at least 1 second", c.MirrorInterval))
	} else if c.MirrorInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid mirror interval %v: must be at most 24 hours", c.MirrorInterval))
	}

	// Validate pricing
	if c.Pricing.SessionPrice.Cents <= 0 {
		errors = append(errors, "session price must be positive")
	}
	if c.Pricing.FullSeasonPrice.Cents <= 0 {
		errors = append(errors, "full season price must be positive")
	}
	if c.Pricing.BeachPassPrice.Cents <= 0 {
		errors = append(errors, "beach pass price must be positive")
	}
	if c.Pricing.CapitalTarget.Cents <= 0 {
		errors = append(errors, "capital target must be positive")
	}
	if c.Pricing.DefaultSeasonLength < 1 {
		errors = append(errors, fmt.Sprintf("invalid default season length %d: must be at least 1", c.Pricing.DefaultSeasonLength))
	}
	if c.Pricing.ExtendedSeasonLength < c.Pricing.DefaultSeasonLength {
		errors = append(errors, fmt.Sprintf("invalid extended season length %d: must be at least the default length %d",
			c.Pricing.ExtendedSeasonLength, c.Pricing.DefaultSeasonLength))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvMoney(key string, defaultValue core.Money) core.Money {
	if value := os.Getenv(key); value != "" {
		if cents, err := core.ParseDecimalToCents(value); err == nil {
			return core.Money{Cents: cents}
		}
	}
	return defaultValue
}
