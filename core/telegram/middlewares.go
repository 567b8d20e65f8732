package telegram

import (
	"strings"
	"time"

	coreconfig "github.com/m3rciful/guidebot/core/config"
	"github.com/m3rciful/guidebot/core/telegram/middleware"
	"github.com/m3rciful/guidebot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// MiddlewareOptions tunes DefaultMiddlewares.
type MiddlewareOptions struct {
	// OnLimited answers updates dropped by the rate limiter. nil means
	// middleware.AnswerLimitedCallback.
	OnLimited tele.HandlerFunc
	// Sessions injects the sender's progress accessor when set.
	Sessions state.Store
}

// DefaultMiddlewares returns the global chain in bot.Use order: recover,
// rate_limit (when configured), logger, metrics, session (when configured).
func DefaultMiddlewares(cfg *coreconfig.Config, opts MiddlewareOptions) []Middleware {
	chain := []Middleware{{Name: "recover", Use: middleware.RecoverMiddleware}}
	onLimited := opts.OnLimited
	if onLimited == nil {
		onLimited = middleware.AnswerLimitedCallback
	}
	if mw, ok := rateLimit(cfg, onLimited); ok {
		chain = append(chain, mw)
	}
	chain = append(chain,
		Middleware{Name: "logger", Use: middleware.LoggerMiddleware},
		Middleware{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	)
	if opts.Sessions != nil {
		chain = append(chain, Middleware{Name: "session", Use: state.WithSession(opts.Sessions)})
	}
	return chain
}

func rateLimit(cfg *coreconfig.Config, onLimited tele.HandlerFunc) (Middleware, bool) {
	if cfg == nil || cfg.RateLimit.IntervalMS <= 0 {
		return Middleware{}, false
	}
	exclude := map[string]struct{}{}
	for _, kind := range cfg.RateLimit.ExcludeUpdates {
		exclude[strings.ToLower(strings.TrimSpace(kind))] = struct{}{}
	}
	return Middleware{
		Name: "rate_limit",
		Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
			Interval:  time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
			Exclude:   exclude,
			OnLimited: onLimited,
		}),
	}, true
}
