package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Load decodes and normalizes the core configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := Decode(path, cfg); err != nil {
		return nil, err
	}
	if err := Normalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode unmarshals the YAML file at path into out and overlays environment
// variables. A missing file is fine: env-only deployments are common.
func Decode(path string, out any) error {
	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, out); err != nil {
				return fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}
	if err := envconfig.Process("", out); err != nil {
		return fmt.Errorf("config: env: %w", err)
	}
	return nil
}

// Normalize validates cfg and fills defaults in place.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}
	if err := cfg.Telegram.normalize(); err != nil {
		return err
	}
	if cfg.Telegram.RunMode == RunModeWebhook {
		if err := cfg.Webhook.normalize(); err != nil {
			return err
		}
	}
	if err := cfg.normalizeHealth(); err != nil {
		return err
	}
	return cfg.RateLimit.normalize()
}

func (t *TelegramConfig) normalize() error {
	if strings.TrimSpace(t.Token) == "" {
		return errors.New("config: telegram token is required (set BOT_TOKEN)")
	}
	switch mode := strings.ToLower(strings.TrimSpace(t.RunMode)); mode {
	case "", "polling", RunModeLongpoll:
		t.RunMode = RunModeLongpoll
	case RunModeWebhook:
		t.RunMode = mode
	default:
		return fmt.Errorf("config: telegram.run_mode %q is not webhook or longpoll", t.RunMode)
	}
	if t.LongPollTimeoutSeconds < 0 {
		return errors.New("config: telegram.longpoll_timeout_seconds must be >= 0")
	}
	return nil
}

func (w *WebhookConfig) normalize() error {
	if w.Path = strings.TrimSpace(w.Path); w.Path == "" {
		w.Path = DefaultWebhookPath
	}
	if !strings.HasPrefix(w.Path, "/") {
		w.Path = "/" + w.Path
	}
	if strings.TrimSpace(w.URL) == "" {
		base := strings.TrimRight(strings.TrimSpace(w.PublicBaseURL), "/")
		if base == "" {
			return errors.New("config: webhook mode needs webhook.url or webhook.public_base_url")
		}
		w.URL = base + w.Path
	}
	if strings.TrimSpace(w.Listen) == "" {
		w.Listen = "0.0.0.0"
	}
	if w.Port <= 0 {
		return errors.New("config: webhook mode needs webhook.port > 0")
	}
	return nil
}

func (c *Config) normalizeHealth() error {
	h := &c.Health
	switch {
	case h.Port == 0:
		h.Port = DefaultHealthPort
	case h.Port < 0:
		return errors.New("config: health.port must be > 0")
	}
	if h.On() && c.Telegram.RunMode == RunModeWebhook && h.Port == c.Webhook.Port {
		return fmt.Errorf("config: health.port %d collides with webhook.port", h.Port)
	}
	return nil
}

var updateKinds = []string{UpdateCallback, UpdateMessage, UpdateInlineQuery}

func (r *RateLimitConfig) normalize() error {
	for i, kind := range r.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(kind))
		if key != "" && !slices.Contains(updateKinds, key) {
			return fmt.Errorf("config: rate_limit.exclude_updates %q is not one of %s", kind, strings.Join(updateKinds, ", "))
		}
		r.ExcludeUpdates[i] = key
	}
	return nil
}
