// Package config defines the top-level configuration for the gift arbitrage
// bot and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by GIFTBOT_* environment
// variables.
type Config struct {
	Telegram  TelegramConfig  `toml:"telegram"`
	Tonnel    MarketConfig    `toml:"tonnel"`
	Portals   MarketConfig    `toml:"portals"`
	Arbitrage ArbitrageConfig `toml:"arbitrage"`
	Access    AccessConfig    `toml:"access"`
	Redis     RedisConfig     `toml:"redis"`
	Watch     WatchConfig     `toml:"watch"`
	Server    ServerConfig    `toml:"server"`
	Notify    NotifyConfig    `toml:"notify"`
	Mode      string          `toml:"mode"`
	LogLevel  string          `toml:"log_level"`
}

// TelegramConfig holds Bot API credentials and long-polling parameters.
type TelegramConfig struct {
	Token          string `toml:"token"`
	PollTimeoutSec int    `toml:"poll_timeout_sec"`
}

// MarketConfig holds one marketplace's listing endpoint.
type MarketConfig struct {
	BaseURL    string `toml:"base_url"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// BandConfig is one selectable buy-price band. Max <= 0 means unbounded.
type BandConfig struct {
	Min float64 `toml:"min"`
	Max float64 `toml:"max"`
}

// ArbitrageConfig holds the fee model, profit threshold, and the price bands
// offered in the chat keyboard.
type ArbitrageConfig struct {
	MinProfit   float64      `toml:"min_profit"`
	SellFeeRate float64      `toml:"sell_fee_rate"`
	BuyFeeRate  float64      `toml:"buy_fee_rate"`
	Bands       []BandConfig `toml:"bands"`
}

// AccessConfig holds trial-access parameters for the chat front end.
type AccessConfig struct {
	DurationHours int `toml:"duration_hours"`
}

// RedisConfig holds Redis connection parameters. When Enabled is false the
// bot falls back to in-memory access bookkeeping and skips snapshot caching
// and the signal bus.
type RedisConfig struct {
	Enabled        bool   `toml:"enabled"`
	Addr           string `toml:"addr"`
	Password       string `toml:"password"`
	DB             int    `toml:"db"`
	PoolSize       int    `toml:"pool_size"`
	MaxRetries     int    `toml:"max_retries"`
	TLSEnabled     bool   `toml:"tls_enabled"`
	SnapshotTTLSec int    `toml:"snapshot_ttl_sec"`
}

// WatchConfig holds the periodic-scan parameters for watch mode.
type WatchConfig struct {
	Interval duration   `toml:"interval"`
	Band     BandConfig `toml:"band"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Telegram: TelegramConfig{
			PollTimeoutSec: 30,
		},
		Tonnel: MarketConfig{
			BaseURL:    "https://tonnel.market",
			TimeoutSec: 10,
		},
		Portals: MarketConfig{
			BaseURL:    "https://portals.market",
			TimeoutSec: 10,
		},
		Arbitrage: ArbitrageConfig{
			MinProfit:   0.3,
			SellFeeRate: 0.05,
			BuyFeeRate:  0,
			Bands: []BandConfig{
				{Min: 1, Max: 10},
				{Min: 10, Max: 20},
				{Min: 20, Max: 0},
			},
		},
		Access: AccessConfig{
			DurationHours: 24,
		},
		Redis: RedisConfig{
			Enabled:        false,
			Addr:           "localhost:6379",
			DB:             0,
			PoolSize:       10,
			MaxRetries:     3,
			TLSEnabled:     false,
			SnapshotTTLSec: 120,
		},
		Watch: WatchConfig{
			Interval: duration{5 * time.Minute},
			Band:     BandConfig{Min: 1, Max: 0},
		},
		Server: ServerConfig{
			Enabled:     false,
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Notify: NotifyConfig{
			Events: []string{"scan", "error"},
		},
		Mode:     "bot",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"bot":   true,
	"scan":  true,
	"watch": true,
	"full":  true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// needsTelegram returns true for modes that run the chat front end.
func needsTelegram(mode string) bool {
	return mode == "bot" || mode == "full"
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	mode := strings.ToLower(c.Mode)
	if !validModes[mode] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: bot, scan, watch, full)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if needsTelegram(mode) && c.Telegram.Token == "" {
		errs = append(errs, "telegram: token is required for mode "+mode)
	}
	if c.Telegram.PollTimeoutSec < 1 {
		errs = append(errs, "telegram: poll_timeout_sec must be >= 1")
	}

	if c.Tonnel.BaseURL == "" {
		errs = append(errs, "tonnel: base_url must not be empty")
	}
	if c.Portals.BaseURL == "" {
		errs = append(errs, "portals: base_url must not be empty")
	}

	if c.Arbitrage.MinProfit < 0 {
		errs = append(errs, "arbitrage: min_profit must be >= 0")
	}
	if c.Arbitrage.SellFeeRate < 0 || c.Arbitrage.SellFeeRate >= 1 {
		errs = append(errs, "arbitrage: sell_fee_rate must be in [0, 1)")
	}
	if c.Arbitrage.BuyFeeRate < 0 || c.Arbitrage.BuyFeeRate >= 1 {
		errs = append(errs, "arbitrage: buy_fee_rate must be in [0, 1)")
	}
	if len(c.Arbitrage.Bands) == 0 {
		errs = append(errs, "arbitrage: at least one price band is required")
	}
	for i, b := range c.Arbitrage.Bands {
		if b.Min < 0 {
			errs = append(errs, fmt.Sprintf("arbitrage: bands[%d].min must be >= 0", i))
		}
		if b.Max > 0 && b.Max < b.Min {
			errs = append(errs, fmt.Sprintf("arbitrage: bands[%d].max must be >= min (or <= 0 for unbounded)", i))
		}
	}

	if c.Access.DurationHours < 1 {
		errs = append(errs, "access: duration_hours must be >= 1")
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	if mode == "watch" || mode == "full" {
		if c.Watch.Interval.Duration <= 0 {
			errs = append(errs, "watch: interval must be > 0")
		}
	}

	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
