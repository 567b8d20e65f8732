package bootstrap

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/guidebot/core/config"
	coredatabase "github.com/m3rciful/guidebot/core/database"
	"github.com/m3rciful/guidebot/core/logger"
)

func testConfig() *coreconfig.Config {
	return &coreconfig.Config{
		Telegram: coreconfig.TelegramConfig{Token: "t", RunMode: coreconfig.RunModeLongpoll},
		Logging:  coreconfig.LoggingConfig{Format: "kv", Level: "error"},
	}
}

func TestRunRequiresConfig(t *testing.T) {
	if _, err := Run(Options{}); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestRunWithoutDatabase(t *testing.T) {
	res, err := Run(Options{Config: testConfig()})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.DB != nil {
		t.Fatal("db should be nil when no driver is configured")
	}
	if err := res.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestRunLoggerFailure(t *testing.T) {
	_, err := Run(Options{
		Config:     testConfig(),
		LoggerInit: func(*coreconfig.Config) error { return errors.New("no sink") },
	})
	if err == nil {
		t.Fatal("expected logger init error")
	}
}

func TestRunSQLiteMigratesAndSeeds(t *testing.T) {
	if err := logger.InitLogger(testConfig()); err != nil {
		t.Fatalf("logger: %v", err)
	}
	dbCfg := coredatabase.Config{
		Driver:        coredatabase.DriverSQLite,
		Path:          filepath.Join(t.TempDir(), "guide.db"),
		MigrationsDir: filepath.Join("..", "..", "migrations"),
	}
	if err := dbCfg.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}

	var seeded bool
	res, err := Run(Options{
		Config:   testConfig(),
		Database: dbCfg,
		Seeders: []Seeder{SeederFunc{Label: "probe", Fn: func(ctx context.Context, db *sqlx.DB) error {
			seeded = true
			_, err := db.ExecContext(ctx, `INSERT INTO events (id, title, position) VALUES (1, 'Открытая лекция', 1)`)
			return err
		}}},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	defer res.Close()

	if !seeded {
		t.Fatal("seeder was not called")
	}
	var n int
	if err := res.DB.Get(&n, `SELECT COUNT(*) FROM events`); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("events = %d, want 1", n)
	}
}

func TestRunSeederFailureClosesDB(t *testing.T) {
	if err := logger.InitLogger(testConfig()); err != nil {
		t.Fatalf("logger: %v", err)
	}
	dbCfg := coredatabase.Config{Driver: coredatabase.DriverSQLite, Path: filepath.Join(t.TempDir(), "x.db")}
	if err := dbCfg.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	_, err := Run(Options{
		Config:   testConfig(),
		Database: dbCfg,
		Migrate:  func(coredatabase.Config) error { return nil },
		Seeders: []Seeder{SeederFunc{Label: "broken", Fn: func(context.Context, *sqlx.DB) error {
			return errors.New("boom")
		}}},
	})
	if err == nil {
		t.Fatal("expected seeder error")
	}
}
