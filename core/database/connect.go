package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/m3rciful/guidebot/core/logger"
)

const (
	connectTimeout = 5 * time.Second
	readyPoll      = 2 * time.Second
)

// Connect opens the pool sized by MaxConnections and checks it answers.
func Connect(cfg Config) (*sqlx.DB, error) {
	if !cfg.Enabled() {
		return nil, errors.New("db connect: no driver configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN())
	attrs := []slog.Attr{
		slog.String("driver", cfg.Driver),
		slog.String("db", cfg.Target()),
		slog.Duration("duration", logger.Took(start)),
	}
	if err != nil {
		logger.Error(ctx, "db", "db.connect", append(attrs, slog.String("status", "fail"), slog.String("err", err.Error()))...)
		return nil, fmt.Errorf("db connect: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)
	logger.Info(ctx, "db", "db.connect", append(attrs, slog.String("status", "ok"), slog.Int("count", cfg.MaxConnections))...)
	return db, nil
}

// WaitReady pings the database every readyPoll until it answers or ctx ends.
// Postgres containers accept TCP before they accept queries.
func WaitReady(ctx context.Context, cfg Config) error {
	db, err := sqlx.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return fmt.Errorf("db wait: %w", err)
	}
	defer db.Close()

	tick := time.NewTicker(readyPoll)
	defer tick.Stop()
	for {
		err = db.PingContext(ctx)
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("db wait: %w", errors.Join(ctx.Err(), err))
		case <-tick.C:
		}
	}
}
