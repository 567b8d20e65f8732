// Package config is the core configuration shared by bot binaries: YAML file
// first, environment variables on top.
package config

import (
	"net"
	"strconv"
)

const (
	RunModeWebhook  = "webhook"
	RunModeLongpoll = "longpoll"

	// DefaultWebhookPath is appended to PublicBaseURL when URL is not set.
	DefaultWebhookPath = "/telegram-webhook"
	// DefaultHealthPort is used when neither PORT nor health.port is set.
	DefaultHealthPort = 8080
)

// Update kinds accepted by rate_limit.exclude_updates.
const (
	UpdateCallback    = "callback"
	UpdateMessage     = "message"
	UpdateInlineQuery = "inline_query"
)

// Config is the part of the configuration the reusable core understands.
// Applications embed it inline in their own config struct.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Health    HealthConfig    `yaml:"health"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	// RunMode is webhook or longpoll; "polling" and empty mean longpoll.
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds of 0 selects the poller default.
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig is only read in webhook mode. URL defaults to
// PublicBaseURL + Path.
type WebhookConfig struct {
	URL           string `yaml:"url" envconfig:"WEBHOOK_URL"`
	PublicBaseURL string `yaml:"public_base_url" envconfig:"PUBLIC_BASE_URL"`
	Path          string `yaml:"path" envconfig:"WEBHOOK_PATH"`
	Listen        string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port          int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// HealthConfig is the liveness listener polled by hosting platforms.
// PORT is the variable most PaaS hosts inject.
type HealthConfig struct {
	Enabled *bool  `yaml:"enabled" envconfig:"HEALTH_ENABLED"`
	Listen  string `yaml:"listen" envconfig:"HEALTH_LISTEN"`
	Port    int    `yaml:"port" envconfig:"PORT"`
}

// On reports whether the listener runs. Unset means yes.
func (h HealthConfig) On() bool {
	return h.Enabled == nil || *h.Enabled
}

func (h HealthConfig) Addr() string {
	return net.JoinHostPort(h.Listen, strconv.Itoa(h.Port))
}

type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format      string `yaml:"format" envconfig:"LOG_FORMAT"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	// Profile is "debug" or "prod"; debug lowers the default level.
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

// RateLimitConfig enforces a minimum interval between one user's updates.
// IntervalMS of 0 disables it.
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}
