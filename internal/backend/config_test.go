package backend

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("INTEGRIBOT_SERVER_ADDR", ":8080")
	t.Setenv("INTEGRIBOT_SERVER_STORE_LOGS", "true")
	t.Setenv("INTEGRIBOT_SERVER_ALLOW_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("INTEGRIBOT_SERVER_GEMINI_API_KEY", "k")
	cfg, err := LoadConfig("INTEGRIBOT_")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" || !cfg.StoreLogs || len(cfg.AllowOrigins) != 2 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Gemini.APIKey != "k" || cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected gemini config: %+v", cfg.Gemini)
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	cfg := Config{Addr: ":1", DataDir: t.TempDir()}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.ShutdownWait != 5*time.Second || cfg.Gemini.Model == "" || len(cfg.AllowOrigins) != 1 {
		t.Fatalf("defaults not filled: %+v", cfg)
	}
	if cfg.DBPath() != filepath.Join(cfg.DataDir, "scores.db") {
		t.Fatalf("unexpected db path %q", cfg.DBPath())
	}
	if err := (&Config{}).Validate(); err == nil {
		t.Fatalf("expected error for empty address")
	}
}
