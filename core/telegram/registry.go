package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/m3rciful/guidebot/core/logger"
	"github.com/m3rciful/guidebot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

const wireComponent = "tg.wire"

// Registry collects the commands, callbacks and fallbacks a feature exposes
// before the router turns them into routes.
type Registry struct {
	mu        sync.RWMutex
	commands  map[string]commands.Command
	callbacks map[string]tele.HandlerFunc

	callbackNotFound tele.HandlerFunc
	textFallback     tele.HandlerFunc
	documentFallback tele.HandlerFunc
}

// NewRegistry returns an empty registry whose unknown-callback handler
// answers with a short toast.
func NewRegistry() *Registry {
	return &Registry{
		commands:  map[string]commands.Command{},
		callbacks: map[string]tele.HandlerFunc{},
		callbackNotFound: func(c tele.Context) error {
			return c.Respond(&tele.CallbackResponse{Text: "Неизвестное действие"})
		},
	}
}

// RegisterCommand adds cmd under name ("/start"). Invalid and duplicate
// registrations are logged and rejected.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) error {
	err := cmd.Validate(name)
	r.mu.Lock()
	if _, dup := r.commands[name]; err == nil && dup {
		err = fmt.Errorf("command %s already registered", name)
	}
	if err == nil {
		r.commands[name] = cmd
	}
	r.mu.Unlock()
	if err != nil {
		logger.Warn(context.Background(), wireComponent, "register.command.skip",
			slog.String("name", name),
			slog.String("reason", err.Error()),
		)
	}
	return err
}

// Commands returns a copy of the registered commands keyed by name.
func (r *Registry) Commands() map[string]commands.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.commands)
}

// ListCommands returns commands sorted by name. visibleOnly keeps those
// that belong in the client's command menu.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]tele.Command, 0, len(r.commands))
	for name, cmd := range r.commands {
		if !visibleOnly || cmd.Published() {
			list = append(list, tele.Command{Text: strings.TrimPrefix(name, "/"), Description: cmd.Description})
		}
	}
	slices.SortFunc(list, func(a, b tele.Command) int { return strings.Compare(a.Text, b.Text) })
	return list
}

// LookupCommand resolves text such as "/start@bot arg" or an alias to the
// registered name and command.
func (r *Registry) LookupCommand(text string) (string, commands.Command, bool) {
	name := commands.Normalize(text)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cmd, ok := r.commands[name]; ok {
		return name, cmd, true
	}
	for key, cmd := range r.commands {
		if cmd.HasAlias(name) {
			return key, cmd, true
		}
	}
	return "", commands.Command{}, false
}

// RegisterCallback maps a button's unique key to h.
func (r *Registry) RegisterCallback(key string, h tele.HandlerFunc) error {
	var err error
	r.mu.Lock()
	switch _, dup := r.callbacks[key]; {
	case key == "" || h == nil:
		err = fmt.Errorf("invalid callback registration %q", key)
	case dup:
		err = fmt.Errorf("callback already registered: %s", key)
	default:
		r.callbacks[key] = h
	}
	r.mu.Unlock()
	if err != nil {
		logger.Warn(context.Background(), wireComponent, "register.callback.skip",
			slog.String("cb_key", key),
			slog.String("reason", err.Error()),
		)
	}
	return err
}

func (r *Registry) GetCallback(key string) (tele.HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.callbacks[key]
	return h, ok
}

// ListCallbacks returns the registered keys in order.
func (r *Registry) ListCallbacks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.callbacks))
}

// SetCallbackNotFound replaces the unknown-callback handler; it must answer
// the callback query itself. nil keeps the current handler.
func (r *Registry) SetCallbackNotFound(h tele.HandlerFunc) {
	if h == nil {
		return
	}
	r.mu.Lock()
	r.callbackNotFound = h
	r.mu.Unlock()
}

func (r *Registry) CallbackNotFound() tele.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.callbackNotFound
}

// SetTextFallback handles text that matches no command.
func (r *Registry) SetTextFallback(h tele.HandlerFunc) {
	r.mu.Lock()
	r.textFallback = h
	r.mu.Unlock()
}

func (r *Registry) TextFallback() tele.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.textFallback
}

// SetDocumentFallback handles documents nobody asked for.
func (r *Registry) SetDocumentFallback(h tele.HandlerFunc) {
	r.mu.Lock()
	r.documentFallback = h
	r.mu.Unlock()
}

func (r *Registry) DocumentFallback() tele.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.documentFallback
}

// CommandSetter is the slice of the Bot API that publishes the command menu.
type CommandSetter interface {
	SetCommands(opts ...interface{}) error
}

// InitBotCommands publishes the visible commands. An empty menu is not sent.
func InitBotCommands(bot CommandSetter, reg *Registry) error {
	if list := reg.ListCommands(true); len(list) > 0 {
		return bot.SetCommands(list)
	}
	return nil
}

// SetupCommands publishes the command menu, logging failures. The bot works
// without one.
func SetupCommands(bot CommandSetter, reg *Registry) {
	ctx := context.Background()
	if err := InitBotCommands(bot, reg); err != nil {
		logger.Warn(ctx, wireComponent, "register.commands.set_failed",
			slog.String("status", "fail"),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return
	}
	logger.Info(ctx, wireComponent, "register.commands.set",
		slog.String("status", "ok"),
		slog.Int("count", len(reg.ListCommands(true))),
	)
}
