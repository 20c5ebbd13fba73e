package config

import (
	"encoding/json"
	"os"

	"github.com/securoserv/securovault/internal/flagx"
	"github.com/securoserv/securovault/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so intervals can be written either as strings like "60s" or
// as integer nanoseconds. Zero values leave the current Config untouched.
type JsonConfig struct {
	BaseURL           string         `json:"base_url"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	DatabasePath      string         `json:"database_path"`
	DownloadsDir      string         `json:"downloads_dir"`
	SettleDelay       timex.Duration `json:"settle_delay"`
	ResendCooldown    timex.Duration `json:"resend_cooldown"`
	QuotaPollInterval timex.Duration `json:"quota_poll_interval"`
	ToastTTL          timex.Duration `json:"toast_ttl"`
	StandardQuotaMB   float64        `json:"standard_quota_mb"`
	PremiumQuotaMB    float64        `json:"premium_quota_mb"`
	CheckoutKeyID     string         `json:"checkout_key_id"`
	OrderAmount       int64          `json:"order_amount"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; when neither is given, nothing is
// loaded. Read or unmarshal errors panic, matching the fail-fast behavior of
// the rest of the config pipeline.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.DownloadsDir != "" {
		cfg.DownloadsDir = jc.DownloadsDir
	}
	if jc.SettleDelay.Duration != 0 {
		cfg.SettleDelay = jc.SettleDelay.Duration
	}
	if jc.ResendCooldown.Duration != 0 {
		cfg.ResendCooldown = jc.ResendCooldown.Duration
	}
	if jc.QuotaPollInterval.Duration != 0 {
		cfg.QuotaPollInterval = jc.QuotaPollInterval.Duration
	}
	if jc.ToastTTL.Duration != 0 {
		cfg.ToastTTL = jc.ToastTTL.Duration
	}
	if jc.StandardQuotaMB != 0 {
		cfg.StandardQuotaMB = jc.StandardQuotaMB
	}
	if jc.PremiumQuotaMB != 0 {
		cfg.PremiumQuotaMB = jc.PremiumQuotaMB
	}
	if jc.CheckoutKeyID != "" {
		cfg.CheckoutKeyID = jc.CheckoutKeyID
	}
	if jc.OrderAmount != 0 {
		cfg.OrderAmount = jc.OrderAmount
	}
}
