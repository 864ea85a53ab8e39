// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/hashicorp/go-multierror"
)

// Config represents the application configuration
type Config struct {
	OracleURL         string `toml:"oracle_url"`
	SocketURL         string `toml:"socket_url"`
	ChatURL           string `toml:"chat_url"`
	ReceiverID        string `toml:"receiver_id"`
	SocketCodec       string `toml:"socket_codec"`
	SuggestDebounceMS int    `toml:"suggest_debounce_ms"`
	TypingIdleMS      int    `toml:"typing_idle_ms"`
	RequestTimeoutMS  int    `toml:"request_timeout_ms"`
	MaxSuggestions    int    `toml:"max_suggestions"`
	HistoryLimit      int    `toml:"history_limit"`
	Theme             Theme  `toml:"theme_colors"`
	Keys              KeyMap `toml:"keys"`
}

// Theme defines the color palette
type Theme struct {
	TextPrimary   string `toml:"text_primary"`
	TextSecondary string `toml:"text_secondary"`
	TextFaint     string `toml:"text_faint"`
	Accent        string `toml:"accent"`
	Success       string `toml:"success"`
	Error         string `toml:"error"`
	Highlight     string `toml:"highlight"`
	Warning       string `toml:"warning"`
	BgPrimary     string `toml:"bg_primary"`
	BgSecondary   string `toml:"bg_secondary"`
	CardBg        string `toml:"card_bg"`
}

// KeyMap defines key bindings
type KeyMap struct {
	NextSuggestion   []string `toml:"next_suggestion"`
	PrevSuggestion   []string `toml:"prev_suggestion"`
	ApplySuggestion  []string `toml:"apply_suggestion"`
	Submit           []string `toml:"submit"`
	Attach           []string `toml:"attach"`
	RemoveAttachment []string `toml:"remove_attachment"`
	Clear            []string `toml:"clear"`
	History          []string `toml:"history"`
	Quit             []string `toml:"quit"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		OracleURL:         "http://localhost:8090",
		SocketURL:         "ws://localhost:8090/socket",
		ChatURL:           "http://localhost:8090/api/messages",
		ReceiverID:        "",
		SocketCodec:       "json",
		SuggestDebounceMS: 120,
		TypingIdleMS:      700,
		RequestTimeoutMS:  5000,
		MaxSuggestions:    8,
		HistoryLimit:      200,
		Theme: Theme{
			// Nord Theme Defaults
			TextPrimary:   "#D8DEE9",
			TextSecondary: "#81A1C1",
			TextFaint:     "#4C566A",
			Accent:        "#88C0D0",
			Success:       "#A3BE8C",
			Error:         "#BF616A",
			Highlight:     "#8FBCBB",
			Warning:       "#D08770",
			BgPrimary:     "#2E3440",
			BgSecondary:   "#3B4252",
			CardBg:        "#434C5E",
		},
		Keys: KeyMap{
			NextSuggestion:   []string{"down", "ctrl+n"},
			PrevSuggestion:   []string{"up", "ctrl+p"},
			ApplySuggestion:  []string{"tab"},
			Submit:           []string{"enter"},
			Attach:           []string{"ctrl+o"},
			RemoveAttachment: []string{"ctrl+x"},
			Clear:            []string{"esc"},
			History:          []string{"ctrl+r"},
			Quit:             []string{"ctrl+c"},
		},
	}
}

// ConfigPath returns the XDG-compliant config file path
func ConfigPath() (string, error) {
	return xdg.ConfigFile("talkup/config.toml")
}

// Load reads the config at path, or the XDG path when path is empty. A
// missing file is created with defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// First run: create default
		cfg := DefaultConfig()
		if err := cfg.Save(path); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Populate defaults for missing fields (migration)
	if cfg.backfill(DefaultConfig()) {
		// Save updated config so user can see/edit them. In-memory defaults
		// still apply if the write fails.
		_ = cfg.Save(path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) backfill(d *Config) bool {
	updated := false
	str := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
			updated = true
		}
	}
	num := func(dst *int, def int) {
		if *dst <= 0 {
			*dst = def
			updated = true
		}
	}

	str(&c.OracleURL, d.OracleURL)
	str(&c.ChatURL, d.ChatURL)
	str(&c.SocketCodec, d.SocketCodec)
	num(&c.SuggestDebounceMS, d.SuggestDebounceMS)
	num(&c.TypingIdleMS, d.TypingIdleMS)
	num(&c.RequestTimeoutMS, d.RequestTimeoutMS)
	num(&c.MaxSuggestions, d.MaxSuggestions)
	num(&c.HistoryLimit, d.HistoryLimit)

	if c.Theme.TextPrimary == "" {
		c.Theme = d.Theme
		updated = true
	}
	if len(c.Keys.Submit) == 0 {
		c.Keys = d.Keys
		updated = true
	}
	return updated
}

// Validate reports every malformed field at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	for name, raw := range map[string]string{"oracle_url": c.OracleURL, "chat_url": c.ChatURL, "socket_url": c.SocketURL} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			result = multierror.Append(result, fmt.Errorf("%s: invalid url %q", name, raw))
		}
	}
	switch c.SocketCodec {
	case "", "json", "msgpack":
	default:
		result = multierror.Append(result, fmt.Errorf("socket_codec: unknown codec %q", c.SocketCodec))
	}
	return result.ErrorOrNil()
}

// SuggestDebounce is the pull debounce window.
func (c *Config) SuggestDebounce() time.Duration {
	return time.Duration(c.SuggestDebounceMS) * time.Millisecond
}

// TypingIdle is the quiet period after which presence drops to idle.
func (c *Config) TypingIdle() time.Duration {
	return time.Duration(c.TypingIdleMS) * time.Millisecond
}

// RequestTimeout bounds one pull query.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// Save writes the config to path
func (c *Config) Save(path string) error {
	// Ensure directory exists with secure permissions
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	// Create/truncate file with secure permissions (owner read/write only)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
