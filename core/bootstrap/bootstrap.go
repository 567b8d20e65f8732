// Package bootstrap prepares process-wide infrastructure: the logger and,
// when configured, a migrated and seeded database.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/guidebot/core/config"
	coredatabase "github.com/m3rciful/guidebot/core/database"
	"github.com/m3rciful/guidebot/core/logger"
)

const defaultSeedTimeout = 10 * time.Second

// Options configure Run. The function fields replace the production steps
// in tests.
type Options struct {
	Config   *coreconfig.Config
	Database coredatabase.Config
	Seeders  []Seeder
	// SeedTimeout bounds each seeder. Zero means 10s.
	SeedTimeout time.Duration

	LoggerInit func(*coreconfig.Config) error
	Connect    func(coredatabase.Config) (*sqlx.DB, error)
	Migrate    func(coredatabase.Config) error
}

func (o *Options) fill() {
	if o.LoggerInit == nil {
		o.LoggerInit = logger.InitLogger
	}
	if o.Migrate == nil {
		o.Migrate = coredatabase.RunMigrations
	}
	if o.Connect == nil {
		o.Connect = coredatabase.Connect
	}
	if o.SeedTimeout <= 0 {
		o.SeedTimeout = defaultSeedTimeout
	}
}

// Result is what Run prepared. DB is nil without a configured driver.
type Result struct {
	DB *sqlx.DB
}

// Close releases the database, if any.
func (r *Result) Close() error {
	if r == nil || r.DB == nil {
		return nil
	}
	return r.DB.Close()
}

// Run starts the logger, then migrates, connects and seeds the database.
// Migrations run before the pool opens so a broken schema fails fast.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, errors.New("bootstrap: nil config")
	}
	opts.fill()

	if err := opts.LoggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger: %w", err)
	}
	if !opts.Database.Enabled() {
		logger.Info(logger.Background(), "db", "db.skip", slog.String("status", "skip"))
		return &Result{}, nil
	}

	if err := opts.Migrate(opts.Database); err != nil {
		return nil, fmt.Errorf("bootstrap: migrate: %w", err)
	}
	db, err := opts.Connect(opts.Database)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: connect: %w", err)
	}
	for _, s := range opts.Seeders {
		if s == nil {
			continue
		}
		if err := seed(db, s, opts.SeedTimeout); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &Result{DB: db}, nil
}

func seed(db *sqlx.DB, s Seeder, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	err := s.Seed(ctx, db)
	attrs := []slog.Attr{
		slog.String("seeder", s.Name()),
		slog.Duration("duration", logger.Took(start)),
	}
	if err != nil {
		logger.Error(ctx, "db.seed", "db.seed", append(attrs, slog.String("status", "fail"), slog.String("err", err.Error()))...)
		return fmt.Errorf("bootstrap: seeder %s: %w", s.Name(), err)
	}
	logger.Info(ctx, "db.seed", "db.seed", append(attrs, slog.String("status", "ok"))...)
	return nil
}
