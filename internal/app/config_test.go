package app

import (
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if !cfg.Keys.Again || !cfg.Keys.Save {
		t.Fatalf("optional triggers should default on")
	}
	if cfg.OverlayOnRequests {
		t.Fatalf("overlay on requests should default off")
	}
}

func TestValidateNormalizesEmptyValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = ""
	cfg.UI = UIConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.LogLevel != "info" || cfg.UI.StyleVariant != "modern_arcade" || cfg.UI.MotionLevel != "full" {
		t.Fatalf("unexpected normalized config %#v", cfg)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"empty url": func(c *Config) { c.BackendURL = " " },
		"scheme":    func(c *Config) { c.BackendURL = "ftp://example.com" },
		"no host":   func(c *Config) { c.BackendURL = "http://" },
		"timeout":   func(c *Config) { c.RequestTimeout = -time.Second },
		"log level": func(c *Config) { c.LogLevel = "chatty" },
		"style":     func(c *Config) { c.UI.StyleVariant = "neon" },
		"motion":    func(c *Config) { c.UI.MotionLevel = "wild" },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestLoadConfigReadsPrefixedEnvironment(t *testing.T) {
	t.Setenv("INTEGRIBOT_BACKEND_URL", "https://integribot.example.com/api")
	t.Setenv("INTEGRIBOT_REQUEST_TIMEOUT", "15s")
	t.Setenv("INTEGRIBOT_OVERLAY_ON_REQUESTS", "true")
	t.Setenv("INTEGRIBOT_KEYS_AGAIN", "false")
	t.Setenv("INTEGRIBOT_UI_STYLE", "retro_terminal")
	t.Setenv("INTEGRIBOT_UI_MARKDOWN", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BackendURL != "https://integribot.example.com/api" || cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("unexpected connection settings %#v", cfg)
	}
	if !cfg.OverlayOnRequests || cfg.Keys.Again || !cfg.Keys.Save {
		t.Fatalf("unexpected toggles %#v", cfg)
	}
	if cfg.UI.StyleVariant != "retro_terminal" || cfg.UI.MotionLevel != "full" || !cfg.UI.Markdown {
		t.Fatalf("unexpected ui settings %#v", cfg.UI)
	}
}
