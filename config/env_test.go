package config

import "testing"

func TestLoadConfigDebugFlag(t *testing.T) {
	t.Setenv("DEBUG", "")
	if cfg := LoadConfig(); cfg.Debug {
		t.Error("debug should default to off")
	}

	t.Setenv("DEBUG", "true")
	if cfg := LoadConfig(); !cfg.Debug {
		t.Error("DEBUG=true should enable debug")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("RATE_LIMIT", "")
	cfg := LoadConfig()
	if cfg.Server.Port != "8080" {
		t.Errorf("default port = %q", cfg.Server.Port)
	}
	if cfg.RateLimit.Rate != "100-M" {
		t.Errorf("default rate = %q", cfg.RateLimit.Rate)
	}
}
