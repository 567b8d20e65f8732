package logger

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	metaKey ctxKey = iota
	loggerKey
)

// Meta identifies the update a log line belongs to.
type Meta struct {
	RID      string
	UpdateID int
	UserID   int64
	ChatID   int64
	Handler  string
}

// WithMeta replaces the update metadata carried by ctx.
func WithMeta(ctx context.Context, m Meta) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, metaKey, m)
}

// MetaFrom returns the update metadata carried by ctx, or the zero Meta.
func MetaFrom(ctx context.Context) Meta {
	if ctx == nil {
		return Meta{}
	}
	m, _ := ctx.Value(metaKey).(Meta)
	return m
}

// WithRID sets the correlation id.
func WithRID(ctx context.Context, rid string) context.Context {
	m := MetaFrom(ctx)
	m.RID = rid
	return WithMeta(ctx, m)
}

// WithUpdateMeta sets the update, user and chat ids.
func WithUpdateMeta(ctx context.Context, updateID int, userID, chatID int64) context.Context {
	m := MetaFrom(ctx)
	m.UpdateID, m.UserID, m.ChatID = updateID, userID, chatID
	return WithMeta(ctx, m)
}

// WithHandler names the handler serving the update. Empty names are ignored.
func WithHandler(ctx context.Context, handler string) context.Context {
	if handler == "" {
		if ctx == nil {
			return context.Background()
		}
		return ctx
	}
	m := MetaFrom(ctx)
	m.Handler = handler
	return WithMeta(ctx, m)
}

// WithLogger attaches log to ctx. A nil logger leaves ctx unchanged.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext returns the logger attached to ctx, falling back to L.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
			return l
		}
	}
	return L
}

// fields copies non-zero metadata into f without overriding explicit attrs.
func (m Meta) fields(f fieldSet) {
	if m.RID != "" {
		f.setDefault("rid", m.RID)
	}
	if m.UpdateID != 0 {
		f.setDefault("update_id", int64(m.UpdateID))
	}
	if m.UserID != 0 {
		f.setDefault("user_id", m.UserID)
	}
	if m.ChatID != 0 {
		f.setDefault("chat_id", m.ChatID)
	}
	if m.Handler != "" {
		f.setDefault("handler", m.Handler)
	}
}
