package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/m3rciful/guidebot/core/logger"
	"github.com/m3rciful/guidebot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var dispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher installs the dispatcher used for fire-and-forget calls.
// nil makes them synchronous.
func SetDispatcher(d *sender.Dispatcher) {
	dispatcher.Store(d)
}

// Dispatcher returns the installed dispatcher, or nil.
func Dispatcher() *sender.Dispatcher {
	return dispatcher.Load()
}

// Typing shows the "typing…" chat action without waiting for Telegram.
// Messages are never queued: they would lose ordering with later sends.
func Typing(c tele.Context) error {
	return fireAndForget(c, "notify.typing", "sendChatAction", func() error {
		return c.Notify(tele.Typing)
	})
}

// fireAndForget queues run on the dispatcher. It runs inline when no
// dispatcher is installed or the queue cannot take it.
func fireAndForget(c tele.Context, action, endpoint string, run func() error) error {
	d := Dispatcher()
	if d == nil {
		return run()
	}
	ctx := BuildContext(c)
	err := d.Enqueue(ctx, action, endpoint, run)
	if !errors.Is(err, sender.ErrQueueFull) && !errors.Is(err, sender.ErrQueueClosed) {
		return err
	}
	logger.Warn(ctx, "tg.sender", "queue.fallback",
		slog.String("action", action),
		slog.String("endpoint", endpoint),
		slog.String("err", err.Error()),
	)
	return run()
}
