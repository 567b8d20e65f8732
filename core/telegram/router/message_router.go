package router

import (
	"strings"

	tg "github.com/m3rciful/guidebot/core/telegram"
	"github.com/m3rciful/guidebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// TextOptions are used when the registry carries no fallback of its own.
type TextOptions struct {
	UnknownText     tele.HandlerFunc
	UnknownDocument tele.HandlerFunc
}

// TextRoutes handles free text and documents. Text naming a registered
// command, such as "/start@bot" typed by hand, goes to that command.
func TextRoutes(reg *tg.Registry, opts TextOptions) []tg.Route {
	textFB := func() tele.HandlerFunc { return pick(reg, (*tg.Registry).TextFallback, opts.UnknownText) }
	docFB := func() tele.HandlerFunc { return pick(reg, (*tg.Registry).DocumentFallback, opts.UnknownDocument) }

	text := func(c tele.Context) error {
		if t := c.Text(); reg != nil && strings.HasPrefix(t, "/") {
			if key, cmd, ok := reg.LookupCommand(t); ok && cmd.Handler != nil {
				return newSummary(handlerName(key)).run(c, func() error { return cmd.Handler(c) })
			}
		}
		return runFallback(c, "unknown_text", textFB())
	}
	doc := func(c tele.Context) error {
		return runFallback(c, "unexpected_document", docFB())
	}

	wrap := func(h tele.HandlerFunc) tele.HandlerFunc {
		return middleware.RecoverMiddleware(middleware.LoggerMiddleware(h))
	}
	return []tg.Route{
		{Endpoint: tele.OnText, Handler: wrap(text)},
		{Endpoint: tele.OnDocument, Handler: wrap(doc)},
	}
}

// pick prefers the registry's fallback over def.
func pick(reg *tg.Registry, get func(*tg.Registry) tele.HandlerFunc, def tele.HandlerFunc) tele.HandlerFunc {
	if reg != nil {
		if h := get(reg); h != nil {
			return h
		}
	}
	return def
}

func runFallback(c tele.Context, name string, h tele.HandlerFunc) error {
	sum := newSummary(name)
	if h == nil {
		sum.skipped().write(c, nil)
		return nil
	}
	return sum.run(c, func() error { return h(c) })
}
