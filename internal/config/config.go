// Package config loads the backend configuration from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the backend reads from the environment.
type Config struct {
	// DSN is the path of the sqlite database file.
	DSN string

	// LogFormat switches between human readable ("human") and JSON logs.
	LogFormat string

	// HorizonDays is how far ahead recurring transactions are generated.
	HorizonDays int
}

// Load reads the configuration from a .env file, if present, and the
// environment. Unset values fall back to defaults.
func Load() Config {
	// A missing .env file is fine, the environment alone is enough
	_ = godotenv.Load()

	config := Config{
		DSN:         "data/budget.db",
		HorizonDays: 90,
	}

	if v, ok := os.LookupEnv("DB_DSN"); ok {
		config.DSN = v
	}

	if v, ok := os.LookupEnv("LOG_FORMAT"); ok {
		config.LogFormat = v
	}

	if v, ok := os.LookupEnv("HORIZON_DAYS"); ok {
		days, err := strconv.Atoi(v)
		if err == nil && days > 0 {
			config.HorizonDays = days
		}
	}

	return config
}
