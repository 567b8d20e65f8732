package helpers

import (
	"context"

	"github.com/m3rciful/guidebot/core/logger"

	tele "gopkg.in/telebot.v4"
)

const ctxStoreKey = "guidebot.ctx"

// UpdateMeta derives log metadata from the update carried by c.
func UpdateMeta(c tele.Context) logger.Meta {
	var m logger.Meta
	if c == nil {
		return m
	}
	m.UpdateID = c.Update().ID
	if chat := c.Chat(); chat != nil {
		m.ChatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		m.UserID = user.ID
	}
	m.RID = logger.BuildRID(m.UpdateID, m.ChatID, m.UserID)
	return m
}

// StoreContext caches ctx on c for the rest of the update.
func StoreContext(c tele.Context, ctx context.Context) {
	if c != nil && ctx != nil {
		c.Set(ctxStoreKey, ctx)
	}
}

// BuildContext returns the context cached on c, creating and caching one
// with update metadata on first use.
func BuildContext(c tele.Context) context.Context {
	if c == nil {
		return logger.Background()
	}
	if ctx, ok := c.Get(ctxStoreKey).(context.Context); ok {
		return ctx
	}
	ctx := logger.WithMeta(logger.Background(), UpdateMeta(c))
	ctx = logger.WithLogger(ctx, logger.Component("tg"))
	StoreContext(c, ctx)
	return ctx
}

// WithHandler records the serving handler name on the cached context.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := BuildContext(c)
	if handler == "" || logger.MetaFrom(ctx).Handler == handler {
		return ctx
	}
	ctx = logger.WithHandler(ctx, handler)
	StoreContext(c, ctx)
	return ctx
}
