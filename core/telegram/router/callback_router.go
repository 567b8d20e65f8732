package router

import (
	"log/slog"

	tg "github.com/m3rciful/guidebot/core/telegram"
	"github.com/m3rciful/guidebot/core/telegram/callbacks"
	"github.com/m3rciful/guidebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions sets the handler for unknown keys when the registry has none.
type CallbackOptions struct {
	NotFound tele.HandlerFunc
}

// CallbackRoute dispatches every callback query by its button key. Known
// keys are answered before their handler runs so the client's spinner stops;
// the not-found handler answers the query itself.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	h := func(c tele.Context) error {
		cb := c.Callback()
		if cb == nil {
			return nil
		}
		key, payload := callbacks.ParseCallbackData(cb)
		sum := newSummary("callback."+handlerName(key),
			slog.String("cb_key", key),
			slog.String("payload", payload),
		)

		if handler, ok := reg.GetCallback(key); ok && handler != nil {
			_ = c.Respond()
			return sum.run(c, func() error { return handler(c) })
		}
		sum = sum.skipped()
		sum.extras = append(sum.extras, slog.String("reason", "not_found"))
		return sum.run(c, func() error { return notFound(reg, opts)(c) })
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(h)),
	}
}

func notFound(reg *tg.Registry, opts CallbackOptions) tele.HandlerFunc {
	if h := reg.CallbackNotFound(); h != nil {
		return h
	}
	if opts.NotFound != nil {
		return opts.NotFound
	}
	return func(c tele.Context) error { return c.Respond() }
}
