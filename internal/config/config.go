package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend string

	// PostgREST
	PostgrestURL    string
	PostgrestAPIKey string

	// SQLite
	SQLiteDBPath string

	// JSON file
	JSONFilePath string

	// Auth
	MasterPassword string
	SessionTTL     time.Duration

	// PIN webhook
	PinWebhookURL string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend: getEnv("DATA_BACKEND", "postgrest"),

		PostgrestURL:    getEnv("POSTGREST_URL", ""),
		PostgrestAPIKey: getEnv("POSTGREST_API_KEY", ""),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/cuentas.db"),
		JSONFilePath: getEnv("JSONFILE_PATH", "./data/accounts.json"),

		MasterPassword: getEnv("MASTER_PASSWORD", "admin123"),
		SessionTTL:     getEnvDuration("SESSION_TTL", 12*time.Hour),

		PinWebhookURL: getEnv("PIN_WEBHOOK_URL", "https://n8n.automscc.com/webhook/codigos-jsd"),
	}

	return cfg
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
	validBackends := []string{"postgrest", "sqlite", "jsonfile"}
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

	// Validate PostgREST configuration if backend is postgrest
	if c.DataBackend == "postgrest" && c.PostgrestURL == "" {
		errors = append(errors, "POSTGREST_URL cannot be empty when using postgrest backend")
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			if err := ensureDir(filepath.Dir(c.SQLiteDBPath)); err != nil {
				errors = append(errors, fmt.Sprintf("cannot create SQLite database directory: %v", err))
			}
		}
	}

	// Validate JSON file configuration if backend is jsonfile
	if c.DataBackend == "jsonfile" {
		if c.JSONFilePath == "" {
			errors = append(errors, "JSON file path cannot be empty when using jsonfile backend")
		} else {
			if err := ensureDir(filepath.Dir(c.JSONFilePath)); err != nil {
				errors = append(errors, fmt.Sprintf("cannot create JSON file directory: %v", err))
			}
		}
	}

	// Validate auth configuration
	if c.MasterPassword == "" {
		errors = append(errors, "MASTER_PASSWORD cannot be empty")
	}
	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	} else if c.SessionTTL > 7*24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at most 7 days", c.SessionTTL))
	}

	// Validate PIN webhook URL
	if c.PinWebhookURL == "" {
		errors = append(errors, "PIN_WEBHOOK_URL cannot be empty")
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func ensureDir(dir string) error {
	if dir == "." || dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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
