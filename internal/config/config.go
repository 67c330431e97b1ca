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

	// Record store
	RecordsFile string
	SheetName   string
	DataBackend string

	// Timezone stamped on new records: "UTC", "Local" or an IANA name.
	Timezone string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		RecordsFile: getEnv("RECORDS_FILE", "payments_records.xlsx"),
		SheetName:   getEnv("SHEET_NAME", "Records"),
		DataBackend: getEnv("DATA_BACKEND", "xlsx"),
		Timezone:    getEnv("TIMEZONE", "UTC"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"xlsx", "memory"}
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

	if c.DataBackend == "xlsx" {
		if c.RecordsFile == "" {
			errors = append(errors, "records file path cannot be empty when using xlsx backend")
		} else {
			dir := filepath.Dir(c.RecordsFile)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create records directory '%s': %v", dir, err))
					}
				}
			}
		}
		if c.SheetName == "" {
			errors = append(errors, "sheet name cannot be empty when using xlsx backend")
		}
	}

	if _, err := c.Location(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "UTC":
		return time.UTC, nil
	case "Local":
		return time.Local, nil
	default:
		return time.LoadLocation(c.Timezone)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
