// Package config assembles runtime settings for the SecuroVault CLI.
//
// Sources are applied in order, later ones overriding earlier ones:
// built-in defaults, environment variables (a .env file is honored when
// present), an optional JSON file (-c/-config) and command-line flags.
package config

import "time"

// Config holds runtime settings for the SecuroVault CLI.
//
// Quota sizes and the checkout key are configuration rather than constants:
// the backend owns the real values and deployments disagree on them, so the
// client never hardcodes either.
type Config struct {
	// BaseURL is the root of the vault HTTP API, e.g. "https://api.securoserv.in".
	BaseURL string

	// RequestTimeout caps every plain (non-upload) API request.
	RequestTimeout time.Duration

	// DatabasePath is the sqlite file holding local session state.
	DatabasePath string

	// DownloadsDir is the subdirectory decrypted files are saved to.
	DownloadsDir string

	// SettleDelay is the pause between a successful login/verification and
	// reporting the navigation target, letting session writes flush first.
	SettleDelay time.Duration

	// ResendCooldown rate-limits OTP resends client-side.
	ResendCooldown time.Duration

	// QuotaPollInterval is how often the storage-usage snapshot refreshes.
	QuotaPollInterval time.Duration

	// ToastTTL is how long a notification stays visible.
	ToastTTL time.Duration

	// StandardQuotaMB / PremiumQuotaMB derive the quota total from the role.
	StandardQuotaMB float64
	PremiumQuotaMB  float64

	// CheckoutKeyID identifies the payment-gateway account. Empty by default;
	// the payment flow refuses to start without it.
	CheckoutKeyID string

	// OrderAmount is the upgrade price in the gateway's minor unit.
	OrderAmount int64
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 30 * time.Second
	c.DatabasePath = "securovault.db"
	c.DownloadsDir = "downloads"
	c.SettleDelay = 120 * time.Millisecond
	c.ResendCooldown = 60 * time.Second
	c.QuotaPollInterval = 60 * time.Second
	c.ToastTTL = 3 * time.Second
	c.StandardQuotaMB = 30 * 1024
	c.PremiumQuotaMB = 100 * 1024
	c.CheckoutKeyID = ""
	c.OrderAmount = 100
}

// QuotaForRole returns the storage total in MB for the given role string.
func (c *Config) QuotaForRole(role string) float64 {
	if role == "PREMIUM" {
		return c.PremiumQuotaMB
	}
	return c.StandardQuotaMB
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
