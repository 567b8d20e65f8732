package telegram

import (
	"context"
	"errors"
	"log/slog"
	"time"

	coreconfig "github.com/m3rciful/guidebot/core/config"
	"github.com/m3rciful/guidebot/core/logger"
	tghelpers "github.com/m3rciful/guidebot/core/telegram/helpers"
	tgsender "github.com/m3rciful/guidebot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

const stopTimeout = 10 * time.Second

// Middleware is a named global middleware installed with bot.Use.
type Middleware struct {
	Name string
	Use  func(next tele.HandlerFunc) tele.HandlerFunc
}

// Route binds Handler to a tele.Bot.Handle endpoint.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// RunOptions configures RunTelegram. Only Config is required.
type RunOptions struct {
	Config   *coreconfig.Config
	Registry *Registry

	// Dispatcher is created from DispatcherOptions when nil. It is installed
	// as the helpers dispatcher and closed on return.
	DispatcherOptions tgsender.Options
	Dispatcher        *tgsender.Dispatcher

	Middlewares []Middleware
	Routes      []Route

	// KeepWebhook skips deleting a stale webhook in long polling mode.
	KeepWebhook bool

	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Runtime is what lifecycle hooks get to see of the running bot.
type Runtime struct {
	Bot        *tele.Bot
	Dispatcher *tgsender.Dispatcher
	Registry   *Registry
}

// RunTelegram starts the bot and blocks until ctx is cancelled or the poller
// stops. OnStop runs on a fresh context bounded by stopTimeout.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if opts.Config == nil {
		return errors.New("telegram: nil config")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := newRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.release()

	rt.install(opts)
	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			return err
		}
	}

	runErr := rt.serve(ctx)
	var stopErr error
	if opts.OnStop != nil {
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
		stopErr = opts.OnStop(stopCtx, rt)
		cancel()
	}
	return errors.Join(stopErr, runErr)
}

func newRuntime(ctx context.Context, opts RunOptions) (Runtime, error) {
	poller := BuildPoller(PollerOptionsFromConfig(opts.Config))
	var pollTimeout time.Duration
	if lp, ok := poller.(*tele.LongPoller); ok {
		pollTimeout = lp.Timeout
	}

	start := time.Now()
	bot, err := tele.NewBot(tele.Settings{
		Token:   opts.Config.Telegram.Token,
		Poller:  poller,
		Client:  BuildHTTPClient(pollTimeout),
		OnError: logUpdateError,
	})
	if err != nil {
		return Runtime{}, err
	}
	logMode(ctx, poller, logger.Took(start))
	if _, longPoll := poller.(*tele.LongPoller); longPoll && !opts.KeepWebhook {
		removeWebhook(ctx, bot)
	}

	rt := Runtime{Bot: bot, Dispatcher: opts.Dispatcher, Registry: opts.Registry}
	if rt.Dispatcher == nil {
		rt.Dispatcher = tgsender.NewDispatcher(opts.DispatcherOptions)
	}
	if rt.Registry == nil {
		rt.Registry = NewRegistry()
	}
	tghelpers.SetDispatcher(rt.Dispatcher)
	return rt, nil
}

// install registers middlewares, routes and the command menu.
func (rt Runtime) install(opts RunOptions) {
	for _, mw := range opts.Middlewares {
		if mw.Use != nil {
			rt.Bot.Use(mw.Use)
		}
	}
	for _, r := range opts.Routes {
		if r.Endpoint != nil && r.Handler != nil {
			rt.Bot.Handle(r.Endpoint, r.Handler)
		}
	}
	SetupCommands(rt.Bot, rt.Registry)
}

// serve runs the poller until ctx ends. Cancellation is a clean stop.
func (rt Runtime) serve(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		rt.Bot.Start()
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		rt.Bot.Stop()
		<-done
	}
	if err := ctx.Err(); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (rt Runtime) release() {
	rt.Dispatcher.Close()
	tghelpers.SetDispatcher(nil)
}

func logMode(ctx context.Context, p tele.Poller, took time.Duration) {
	switch p := p.(type) {
	case *tele.Webhook:
		logger.Info(ctx, "tg", "mode",
			slog.String("mode", coreconfig.RunModeWebhook),
			slog.String("listen", p.Listen),
			slog.String("public_url", p.Endpoint.PublicURL),
			slog.Duration("duration", took),
		)
	case *tele.LongPoller:
		logger.Info(ctx, "tg", "mode",
			slog.String("mode", coreconfig.RunModeLongpoll),
			slog.Duration("timeout", p.Timeout),
			slog.Duration("duration", took),
		)
	}
}

// removeWebhook drops a webhook left by an earlier webhook deployment.
// Telegram refuses getUpdates while one is set.
func removeWebhook(ctx context.Context, bot *tele.Bot) {
	if err := bot.RemoveWebhook(false); err != nil {
		logger.Warn(ctx, "tg", "webhook.delete", slog.String("status", "fail"), slog.String("err", err.Error()))
		return
	}
	logger.Info(ctx, "tg", "webhook.delete", slog.String("status", "ok"))
}

// logUpdateError is telebot's OnError hook for handler and poller failures.
func logUpdateError(err error, c tele.Context) {
	ctx := logger.Background()
	if c != nil {
		ctx = tghelpers.BuildContext(c)
	}
	logger.Error(ctx, "tg", "update.error",
		slog.String("status", "fail"),
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
	)
}
