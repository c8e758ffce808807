package app

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every environment variable the client reads.
const EnvPrefix = "INTEGRIBOT_"

// Config controls runtime behavior for the TUI client.
type Config struct {
	BackendURL        string        `env:"BACKEND_URL"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT"`
	LogPath           string        `env:"LOG_PATH"`
	LogLevel          string        `env:"LOG_LEVEL"`
	DebugLayout       bool          `env:"DEBUG_LAYOUT"`
	ASCIIOnly         bool          `env:"ASCII_ONLY"`
	OverlayOnRequests bool          `env:"OVERLAY_ON_REQUESTS"`
	RolesDir          string        `env:"ROLES_DIR"`
	UI                UIConfig      `envPrefix:"UI_"`
	Keys              KeysConfig    `envPrefix:"KEYS_"`
}

type UIConfig struct {
	StyleVariant string `env:"STYLE"`
	MotionLevel  string `env:"MOTION"`
	Markdown     bool   `env:"MARKDOWN"`
}

// KeysConfig toggles the optional triggers. Disabling one removes its key
// binding without touching the others.
type KeysConfig struct {
	Again bool `env:"AGAIN"`
	Save  bool `env:"SAVE"`
}

func DefaultConfig() Config {
	return Config{
		BackendURL: "http://127.0.0.1:5000",
		LogLevel:   "info",
		UI: UIConfig{
			StyleVariant: "modern_arcade",
			MotionLevel:  "full",
		},
		Keys: KeysConfig{Again: true, Save: true},
	}
}

// LoadConfig layers INTEGRIBOT_* environment variables over the defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	c.BackendURL = strings.TrimSpace(c.BackendURL)
	if c.BackendURL == "" {
		return errors.New("backend url is required")
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid backend url %q", c.BackendURL)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("invalid request timeout %s", c.RequestTimeout)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	switch c.UI.StyleVariant {
	case "", "modern_arcade", "cozy_clean", "retro_terminal":
	default:
		return fmt.Errorf("invalid ui style variant %q", c.UI.StyleVariant)
	}
	if c.UI.StyleVariant == "" {
		c.UI.StyleVariant = "modern_arcade"
	}
	switch c.UI.MotionLevel {
	case "", "off", "reduced", "full":
	default:
		return fmt.Errorf("invalid ui motion level %q", c.UI.MotionLevel)
	}
	if c.UI.MotionLevel == "" {
		c.UI.MotionLevel = "full"
	}
	return nil
}
