package router

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/guidebot/core/logger"
	tghelpers "github.com/m3rciful/guidebot/core/telegram/helpers"
	"github.com/m3rciful/guidebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// summary produces the handler.handled line written after every routed update.
type summary struct {
	name  string
	start time.Time
	// status overrides the ok/fail status derived from the handler error.
	status string
	extras []slog.Attr
}

func newSummary(name string, extras ...slog.Attr) summary {
	return summary{name: name, start: time.Now(), extras: extras}
}

func (s summary) skipped() summary {
	s.status = "skip"
	return s
}

// run calls fn with the handler name recorded on the update context.
func (s summary) run(c tele.Context, fn func() error) error {
	tghelpers.WithHandler(c, s.name)
	err := fn()
	s.write(c, err)
	return err
}

func (s summary) write(c tele.Context, err error) {
	ctx := tghelpers.WithHandler(c, s.name)
	msgs, kb := middleware.GetCounters(c)

	outcome := "ok"
	if err != nil {
		outcome = "fail"
	}
	status := s.status
	if status == "" {
		status = outcome
	}

	attrs := make([]slog.Attr, 0, 8+len(s.extras))
	attrs = append(attrs,
		slog.String("status", status),
		slog.String("outcome", outcome),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Duration("duration", logger.Took(s.start)),
	)
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", errorCode(err)),
		)
	}
	logger.Info(ctx, "tg", "handler.handled", append(attrs, s.extras...)...)
}

// handlerName turns a command or callback key into a log-friendly name.
func handlerName(key string) string {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return "unknown"
	}
	return strings.ToLower(strings.ReplaceAll(key, " ", "_"))
}

// errorCode picks a stable code for err: an explicit Code(), the Telegram
// API status, or the error's type name.
func errorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		if code := strings.TrimSpace(coded.Code()); code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("TG_%d", apiErr.Code)
	}
	name := strings.TrimLeft(fmt.Sprintf("%T", err), "*")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "UNKNOWN_ERROR"
	}
	return strings.ToUpper(name)
}
