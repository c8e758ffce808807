package backend

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config controls the local IntegriBot backend.
type Config struct {
	Addr         string        `env:"ADDR"`
	DataDir      string        `env:"DATA_DIR"`
	RolesDir     string        `env:"ROLES_DIR"`
	CorpusPath   string        `env:"CORPUS_PATH"`
	StoreLogs    bool          `env:"STORE_LOGS"`
	LogPath      string        `env:"LOG_PATH"`
	LogLevel     string        `env:"LOG_LEVEL"`
	AllowOrigins []string      `env:"ALLOW_ORIGINS" envSeparator:","`
	ShutdownWait time.Duration `env:"SHUTDOWN_WAIT"`
	Gemini       GeminiConfig  `envPrefix:"GEMINI_"`
}

type GeminiConfig struct {
	APIKey string `env:"API_KEY"`
	Model  string `env:"MODEL"`
}

// Online reports whether a usable key is configured. Placeholder values
// count as no key.
func (g GeminiConfig) Online() bool {
	switch strings.ToLower(strings.TrimSpace(g.APIKey)) {
	case "", "unused", "none", "your_key_here":
		return false
	}
	return true
}

func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:5000",
		LogLevel:     "info",
		AllowOrigins: []string{"*"},
		ShutdownWait: 5 * time.Second,
		Gemini:       GeminiConfig{Model: "gemini-2.5-flash"},
	}
}

// LoadConfig layers prefixed environment variables over the defaults.
func LoadConfig(prefix string) (Config, error) {
	cfg := DefaultConfig()
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: prefix + "SERVER_"}); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("listen address is required")
	}
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "integribot")
	}
	if c.ShutdownWait <= 0 {
		c.ShutdownWait = 5 * time.Second
	}
	if len(c.AllowOrigins) == 0 {
		c.AllowOrigins = []string{"*"}
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	return nil
}

// DBPath is where consented scores are kept.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "scores.db")
}
