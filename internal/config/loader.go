package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies GIFTBOT_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known GIFTBOT_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e.
// not empty). This lets operators inject secrets at deploy time without
// touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Telegram ──
	setStr(&cfg.Telegram.Token, "GIFTBOT_TELEGRAM_TOKEN")
	setInt(&cfg.Telegram.PollTimeoutSec, "GIFTBOT_TELEGRAM_POLL_TIMEOUT_SEC")

	// ── Marketplaces ──
	setStr(&cfg.Tonnel.BaseURL, "GIFTBOT_TONNEL_BASE_URL")
	setInt(&cfg.Tonnel.TimeoutSec, "GIFTBOT_TONNEL_TIMEOUT_SEC")
	setStr(&cfg.Portals.BaseURL, "GIFTBOT_PORTALS_BASE_URL")
	setInt(&cfg.Portals.TimeoutSec, "GIFTBOT_PORTALS_TIMEOUT_SEC")

	// ── Arbitrage ──
	setFloat64(&cfg.Arbitrage.MinProfit, "GIFTBOT_ARBITRAGE_MIN_PROFIT")
	setFloat64(&cfg.Arbitrage.SellFeeRate, "GIFTBOT_ARBITRAGE_SELL_FEE_RATE")
	setFloat64(&cfg.Arbitrage.BuyFeeRate, "GIFTBOT_ARBITRAGE_BUY_FEE_RATE")

	// ── Access ──
	setInt(&cfg.Access.DurationHours, "GIFTBOT_ACCESS_DURATION_HOURS")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "GIFTBOT_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "GIFTBOT_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "GIFTBOT_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "GIFTBOT_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "GIFTBOT_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "GIFTBOT_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "GIFTBOT_REDIS_TLS_ENABLED")
	setInt(&cfg.Redis.SnapshotTTLSec, "GIFTBOT_REDIS_SNAPSHOT_TTL_SEC")

	// ── Watch ──
	setDuration(&cfg.Watch.Interval, "GIFTBOT_WATCH_INTERVAL")
	setFloat64(&cfg.Watch.Band.Min, "GIFTBOT_WATCH_BAND_MIN")
	setFloat64(&cfg.Watch.Band.Max, "GIFTBOT_WATCH_BAND_MAX")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "GIFTBOT_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "GIFTBOT_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "GIFTBOT_SERVER_CORS_ORIGINS")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "GIFTBOT_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "GIFTBOT_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "GIFTBOT_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "GIFTBOT_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "GIFTBOT_MODE")
	setStr(&cfg.LogLevel, "GIFTBOT_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
