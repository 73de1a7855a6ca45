package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Defaults()
	cfg.Telegram.Token = "123:abc"
	return cfg
}

func TestDefaultsValidate(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults with token should validate: %v", err)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "nonsense"
	cfg.Arbitrage.SellFeeRate = 1.5
	cfg.Arbitrage.Bands = []BandConfig{{Min: -1, Max: 10}}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"unknown mode", "sell_fee_rate", "bands[0].min"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err.Error(), want)
		}
	}
}

func TestValidateTelegramOnlyForBotModes(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "scan"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("scan mode should not require a telegram token: %v", err)
	}

	cfg.Mode = "bot"
	if err := cfg.Validate(); err == nil {
		t.Fatal("bot mode without token should fail validation")
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
mode = "watch"
log_level = "debug"

[arbitrage]
min_profit = 0.5

[watch]
interval = "90s"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Mode != "watch" {
		t.Errorf("mode = %q, want watch", cfg.Mode)
	}
	if cfg.Arbitrage.MinProfit != 0.5 {
		t.Errorf("min_profit = %v, want 0.5", cfg.Arbitrage.MinProfit)
	}
	if cfg.Watch.Interval.Duration != 90*time.Second {
		t.Errorf("interval = %v, want 90s", cfg.Watch.Interval.Duration)
	}
	// Untouched sections keep their defaults.
	if cfg.Arbitrage.SellFeeRate != 0.05 {
		t.Errorf("sell_fee_rate = %v, want default 0.05", cfg.Arbitrage.SellFeeRate)
	}
	if len(cfg.Arbitrage.Bands) != 3 {
		t.Errorf("bands = %d, want default 3", len(cfg.Arbitrage.Bands))
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GIFTBOT_TELEGRAM_TOKEN", "env-token")
	t.Setenv("GIFTBOT_ARBITRAGE_SELL_FEE_RATE", "0.07")
	t.Setenv("GIFTBOT_REDIS_ENABLED", "true")

	cfg := Defaults()
	applyEnvOverrides(&cfg)

	if cfg.Telegram.Token != "env-token" {
		t.Errorf("token = %q, want env-token", cfg.Telegram.Token)
	}
	if cfg.Arbitrage.SellFeeRate != 0.07 {
		t.Errorf("sell_fee_rate = %v, want 0.07", cfg.Arbitrage.SellFeeRate)
	}
	if !cfg.Redis.Enabled {
		t.Error("redis.enabled not overridden")
	}
}
