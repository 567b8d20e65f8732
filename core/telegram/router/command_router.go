package router

import (
	"log/slog"

	"github.com/m3rciful/guidebot/core/logger"
	tg "github.com/m3rciful/guidebot/core/telegram"
	"github.com/m3rciful/guidebot/core/telegram/commands"
	"github.com/m3rciful/guidebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CommandRouteOptions configures the admin gate on admin-only commands.
type CommandRouteOptions struct {
	AdminID       int64
	OnAdminReject tele.HandlerFunc
}

// CommandRoutes returns one route per registered command. Each handler runs
// inside, from the outside in: the admin gate for admin-only commands, the
// update logger, panic recovery and the handler summary.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}
	gate := middleware.AdminOnlyMiddleware(middleware.AdminOptions{
		AdminID:  opts.AdminID,
		OnReject: opts.OnAdminReject,
	})

	cmds := reg.Commands()
	routes := make([]tg.Route, 0, len(cmds))
	for name, cmd := range cmds {
		routes = append(routes, tg.Route{Endpoint: name, Handler: commandHandler(name, cmd, gate)})
	}
	logger.Info(logger.Background(), "tg.wire", "complete",
		slog.Int("commands", len(cmds)),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)
	return routes
}

func commandHandler(name string, cmd commands.Command, gate tele.MiddlewareFunc) tele.HandlerFunc {
	label := handlerName(name)
	h := func(c tele.Context) error {
		return newSummary(label).run(c, func() error { return cmd.Handler(c) })
	}
	h = middleware.LoggerMiddleware(middleware.RecoverMiddleware(h))
	if cmd.AdminOnly {
		h = gate(h)
	}
	return h
}
