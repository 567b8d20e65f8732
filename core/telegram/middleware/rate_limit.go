package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/guidebot/core/logger"
	tghelpers "github.com/m3rciful/guidebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	Interval  time.Duration
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// AnswerLimitedCallback acknowledges a dropped callback query so the client
// stops its loading spinner. Other updates are ignored.
func AnswerLimitedCallback(c tele.Context) error {
	if c.Callback() == nil {
		return nil
	}
	return c.Respond()
}

// pruneEvery bounds how many accepted updates pass between sweeps of stale users.
const pruneEvery = 512

// UpdateKind classifies an update for rate limit exclusions.
func UpdateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return "callback"
	case upd.Message != nil:
		return "message"
	case upd.Query != nil:
		return "inline_query"
	}
	return "other"
}

// RateLimitMiddleware returns a middleware that enforces a minimum interval
// between updates from the same user.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	var (
		mu       sync.Mutex
		lastSeen = make(map[int64]time.Time)
		accepted int
	)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}
			kind := UpdateKind(c.Update())
			if _, skip := opts.Exclude[kind]; skip {
				return next(c)
			}

			ts := now()
			mu.Lock()
			if last, ok := lastSeen[user.ID]; ok && ts.Sub(last) < opts.Interval {
				mu.Unlock()
				logger.Warn(tghelpers.BuildContext(c), "tg", "tg.rate_limit",
					slog.String("status", "skip"),
					slog.String("kind", kind),
				)
				if opts.OnLimited != nil {
					if err := opts.OnLimited(c); err != nil {
						logger.Debug(tghelpers.BuildContext(c), "tg", "tg.rate_limit_answer",
							slog.String("err", err.Error()),
						)
					}
				}
				return nil
			}
			lastSeen[user.ID] = ts
			accepted++
			if accepted%pruneEvery == 0 {
				for id, seen := range lastSeen {
					if ts.Sub(seen) >= opts.Interval {
						delete(lastSeen, id)
					}
				}
			}
			mu.Unlock()
			return next(c)
		}
	}
}
