package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment.
// A .env file in the working directory is loaded first, if present; real
// environment variables win over .env entries (godotenv.Load never
// overwrites existing variables).
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("SECUROVAULT_API_BASE"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("SECUROVAULT_DB"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("SECUROVAULT_CHECKOUT_KEY"); v != "" {
		cfg.CheckoutKeyID = v
	}
}
