// Package app assembles the guide bot from its configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m3rciful/guidebot/core/bootstrap"
	"github.com/m3rciful/guidebot/core/health"
	"github.com/m3rciful/guidebot/core/logger"
	tg "github.com/m3rciful/guidebot/core/telegram"
	tghelpers "github.com/m3rciful/guidebot/core/telegram/helpers"
	"github.com/m3rciful/guidebot/core/telegram/router"
	"github.com/m3rciful/guidebot/core/telegram/sender"
	"github.com/m3rciful/guidebot/core/telegram/state"
	"github.com/m3rciful/guidebot/internal/content"
	"github.com/m3rciful/guidebot/internal/events"
	"github.com/m3rciful/guidebot/internal/guide"
	"github.com/m3rciful/guidebot/internal/menu"
)

// App owns everything built at startup and shared by all updates.
type App struct {
	cfg     *Config
	content *content.Content
	engine  *guide.Engine
	store   state.Store
	catalog events.Catalog
	infra   *bootstrap.Result
	health  *health.Server
}

// Bootstrap loads the guide content, initializes logging and the optional
// events database, and builds the in-memory progress store.
func Bootstrap(cfg *Config) (*App, error) {
	return bootstrapWith(cfg, bootstrap.Options{})
}

func bootstrapWith(cfg *Config, base bootstrap.Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	c, err := content.Load(cfg.Guide.ContentPath)
	if err != nil {
		return nil, fmt.Errorf("app: guide content: %w", err)
	}
	engine, err := c.Engine()
	if err != nil {
		return nil, fmt.Errorf("app: guide engine: %w", err)
	}

	base.Config = cfg.CoreConfig()
	base.Database = cfg.Database
	base.Seeders = append(base.Seeders, events.Seeder(c.Events))
	infra, err := bootstrap.Run(base)
	if err != nil {
		return nil, err
	}

	var catalog events.Catalog = events.StaticCatalog(c.Events)
	if infra.DB != nil {
		catalog = events.NewSQLCatalog(infra.DB)
	}

	logger.Info(logger.Background(), "app", "guide.loaded",
		slog.String("path", cfg.Guide.ContentPath),
		slog.Int("steps_total", engine.Len()),
		slog.Int("fast_forward", engine.FastForwardIndex()),
		slog.Int("events", len(c.Events)),
	)

	return &App{
		cfg:     cfg,
		content: c,
		engine:  engine,
		store:   state.NewMemoryStore(),
		catalog: catalog,
		infra:   infra,
	}, nil
}

// TelegramRunOptions wires the menu into the core Telegram runtime.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	core := a.cfg.CoreConfig()
	reg := tg.NewRegistry()

	svc, err := menu.New(menu.Options{
		Engine:      a.engine,
		Store:       a.store,
		Catalog:     a.catalog,
		TestLink:    a.content.TestLink,
		EventsPhoto: a.content.EventsPhoto,
		Stats:       func() sender.Stats { return tghelpers.Dispatcher().Stats() },
	})
	if err != nil {
		return tg.RunOptions{}, err
	}
	if err := svc.Register(reg); err != nil {
		return tg.RunOptions{}, fmt.Errorf("app: register menu: %w", err)
	}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{AdminID: core.Telegram.AdminID})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(reg, router.TextOptions{})...)

	return tg.RunOptions{
		Config:      core,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(core, tg.MiddlewareOptions{Sessions: a.store}),
		Routes:      routes,
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

func (a *App) onStart(context.Context, tg.Runtime) error {
	if !a.cfg.Health.On() {
		return nil
	}
	srv := health.New(a.cfg.Health.Addr())
	if err := srv.Start(); err != nil {
		return err
	}
	a.health = srv
	return nil
}

func (a *App) onStop(ctx context.Context, _ tg.Runtime) error {
	return errors.Join(a.health.Shutdown(ctx), a.Close())
}

// Close releases the events database.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return a.infra.Close()
}
