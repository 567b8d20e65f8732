package middleware

import (
	"log/slog"

	"github.com/m3rciful/guidebot/core/logger"
	"github.com/m3rciful/guidebot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/guidebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

const receiptKey = "guidebot.receipt_logged"

// LoggerMiddleware attaches update metadata to the handler context and writes
// one sampled update.received line per update. It may be chained on both the
// bot and a route; the receipt is written once.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		if done, _ := c.Get(receiptKey).(bool); !done {
			c.Set(receiptKey, true)
			if logger.ShouldSampleDebug() {
				logger.Debug(ctx, "tg", "update.received", receiptAttrs(c)...)
			}
		}
		return next(c)
	}
}

func receiptAttrs(c tele.Context) []slog.Attr {
	attrs := []slog.Attr{slog.String("status", "ok")}
	if chat := c.Chat(); chat != nil {
		attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
	}
	if u := c.Sender(); u != nil {
		if u.Username != "" {
			attrs = append(attrs, slog.String("username", logger.SanitizeLimit(u.Username, 64)))
		}
		if u.LanguageCode != "" {
			attrs = append(attrs, slog.String("lang", u.LanguageCode))
		}
	}
	if cb := c.Callback(); cb != nil {
		key, payload := callbacks.ParseCallbackData(cb)
		attrs = append(attrs,
			slog.String("cb_key", logger.SanitizeLimit(key, 128)),
			slog.String("payload", logger.SanitizeLimit(payload, 256)),
		)
	} else if t := c.Text(); t != "" {
		attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 256)))
	}
	return attrs
}
