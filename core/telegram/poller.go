package telegram

import (
	"net"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/guidebot/core/config"
)

// DefaultLongPollTimeout applies when no timeout is configured.
const DefaultLongPollTimeout = 10 * time.Second

// allowedUpdates are the only update types the bot asks Telegram for.
var allowedUpdates = []string{"message", "callback_query"}

type WebhookOptions struct {
	Listen string
	Port   int
	URL    string
}

// PollerOptions selects and configures the update source.
type PollerOptions struct {
	RunMode                string
	LongPollTimeoutSeconds int
	Webhook                WebhookOptions
}

func PollerOptionsFromConfig(cfg *coreconfig.Config) PollerOptions {
	wh := cfg.Webhook
	return PollerOptions{
		RunMode:                cfg.Telegram.RunMode,
		LongPollTimeoutSeconds: cfg.Telegram.LongPollTimeoutSeconds,
		Webhook:                WebhookOptions{Listen: wh.Listen, Port: wh.Port, URL: wh.URL},
	}
}

// BuildPoller returns a webhook listener in webhook mode and a long poller
// otherwise.
func BuildPoller(opts PollerOptions) tele.Poller {
	if strings.EqualFold(strings.TrimSpace(opts.RunMode), coreconfig.RunModeWebhook) {
		return &tele.Webhook{
			Listen:         net.JoinHostPort(opts.Webhook.Listen, strconv.Itoa(opts.Webhook.Port)),
			AllowedUpdates: allowedUpdates,
			Endpoint:       &tele.WebhookEndpoint{PublicURL: opts.Webhook.URL},
		}
	}
	lp := &tele.LongPoller{Timeout: DefaultLongPollTimeout, AllowedUpdates: allowedUpdates}
	if opts.LongPollTimeoutSeconds > 0 {
		lp.Timeout = time.Duration(opts.LongPollTimeoutSeconds) * time.Second
	}
	return lp
}
