package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	coreconfig "github.com/m3rciful/guidebot/core/config"
	coredatabase "github.com/m3rciful/guidebot/core/database"
	tg "github.com/m3rciful/guidebot/core/telegram"
	"github.com/m3rciful/guidebot/core/telegram/state"
	"github.com/m3rciful/guidebot/internal/events"

	tele "gopkg.in/telebot.v4"
)

const testContent = `
test_link: https://test.example/
steps:
  - body: "Первый шаг"
  - body: "Открой {test_link}"
    media: https://img.example/1.jpg
events:
  - title: Лекция
    date: 12 мая
    link: https://ev.example/1
`

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func testConfig(t *testing.T) *Config {
	off := false
	return &Config{
		Config: coreconfig.Config{
			Telegram: coreconfig.TelegramConfig{Token: "123:abc", AdminID: 42, RunMode: coreconfig.RunModeLongpoll},
			Health:   coreconfig.HealthConfig{Enabled: &off},
			Logging:  coreconfig.LoggingConfig{Format: "kv", Level: "error"},
		},
		Guide: GuideConfig{ContentPath: writeFile(t, "guide.yaml", testContent)},
	}
}

func TestLoadReadsAllSections(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	path := writeFile(t, "config.yaml", `
telegram:
  run_mode: polling
  admin_id: 7
guide:
  content_path: content/guide.toml
database:
  driver: SQLite
  path: data/events.db
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "123:abc" || cfg.Telegram.RunMode != coreconfig.RunModeLongpoll || cfg.Telegram.AdminID != 7 {
		t.Fatalf("telegram = %+v", cfg.Telegram)
	}
	if cfg.Guide.ContentPath != "content/guide.toml" {
		t.Fatalf("content path = %q", cfg.Guide.ContentPath)
	}
	if cfg.Database.Driver != coredatabase.DriverSQLite || cfg.Database.Path != "data/events.db" {
		t.Fatalf("database = %+v", cfg.Database)
	}
	if cfg.CoreConfig().Health.Port != coreconfig.DefaultHealthPort {
		t.Fatalf("health port = %d", cfg.CoreConfig().Health.Port)
	}
}

func TestLoadDefaultsContentPath(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Guide.ContentPath != DefaultContentPath {
		t.Fatalf("content path = %q", cfg.Guide.ContentPath)
	}
}

func TestLoadRejectsBadDatabaseDriver(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DB_DRIVER", "mongo")
	if _, err := Load(""); err == nil {
		t.Fatal("expected driver error")
	}
}

func TestBootstrapWithoutDatabaseUsesStaticCatalog(t *testing.T) {
	a, err := Bootstrap(testConfig(t))
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer a.Close()

	if a.engine.Len() != 2 || a.engine.FastForwardIndex() != 1 {
		t.Fatalf("engine len=%d ff=%d", a.engine.Len(), a.engine.FastForwardIndex())
	}
	list, err := a.catalog.List(context.Background())
	if err != nil || len(list) != 1 || list[0].Title != "Лекция" {
		t.Fatalf("catalog = %+v, %v", list, err)
	}
	if _, ok := a.catalog.(events.StaticCatalog); !ok {
		t.Fatalf("catalog type = %T", a.catalog)
	}
}

func TestBootstrapWithSQLiteSeedsEvents(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database = coredatabase.Config{
		Driver:        coredatabase.DriverSQLite,
		Path:          filepath.Join(t.TempDir(), "events.db"),
		MigrationsDir: filepath.Join("..", "..", "migrations"),
	}
	if err := cfg.Database.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	a, err := Bootstrap(cfg)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer a.Close()

	if _, ok := a.catalog.(*events.SQLCatalog); !ok {
		t.Fatalf("catalog type = %T", a.catalog)
	}
	list, err := a.catalog.List(context.Background())
	if err != nil || len(list) != 1 || list[0].Link != "https://ev.example/1" {
		t.Fatalf("catalog = %+v, %v", list, err)
	}
}

func TestBootstrapRejectsMissingContent(t *testing.T) {
	cfg := testConfig(t)
	cfg.Guide.ContentPath = filepath.Join(t.TempDir(), "none.yaml")
	if _, err := Bootstrap(cfg); err == nil {
		t.Fatal("expected content error")
	}
}

func TestTelegramRunOptions(t *testing.T) {
	a, err := Bootstrap(testConfig(t))
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	opts, err := a.TelegramRunOptions()
	if err != nil {
		t.Fatalf("run options: %v", err)
	}
	if opts.Config != a.cfg.CoreConfig() || opts.Registry == nil {
		t.Fatal("config and registry must be set")
	}
	var callbacks, text bool
	for _, r := range opts.Routes {
		switch r.Endpoint {
		case tele.OnCallback:
			callbacks = true
		case tele.OnText:
			text = true
		}
	}
	if !callbacks || !text {
		t.Fatalf("routes = %+v", opts.Routes)
	}
	if cmds := opts.Registry.ListCommands(true); len(cmds) != 2 {
		t.Fatalf("published commands = %+v", cmds)
	}
	names := map[string]bool{}
	for _, mw := range opts.Middlewares {
		names[mw.Name] = true
	}
	if !names["session"] {
		t.Fatalf("session middleware missing: %+v", names)
	}

	if err := opts.OnStart(context.Background(), tg.Runtime{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if a.health != nil {
		t.Fatal("health server must stay off when disabled")
	}
	if err := opts.OnStop(context.Background(), tg.Runtime{}); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestHealthStartsAndStops(t *testing.T) {
	cfg := testConfig(t)
	on := true
	cfg.Health = coreconfig.HealthConfig{Enabled: &on, Listen: "127.0.0.1"}
	a, err := Bootstrap(cfg)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if err := a.onStart(context.Background(), tg.Runtime{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if a.health == nil {
		t.Fatal("health server not started")
	}
	if err := a.onStop(context.Background(), tg.Runtime{}); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestSessionsAreInMemory(t *testing.T) {
	a, err := Bootstrap(testConfig(t))
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	state.For(a.store, 1).Put(state.UserProgress{GuideStep: 1})
	if a.store.Len() != 1 {
		t.Fatalf("sessions = %d", a.store.Len())
	}
}
