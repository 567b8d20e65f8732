package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/guidebot/core/bootstrap"
	"github.com/m3rciful/guidebot/core/logger"
)

const listQuery = `SELECT title, starts_at, link FROM events WHERE active = TRUE ORDER BY position, id`

// SQLCatalog reads events from the events table.
type SQLCatalog struct {
	db *sqlx.DB
}

// NewSQLCatalog wraps an open database.
func NewSQLCatalog(db *sqlx.DB) *SQLCatalog {
	return &SQLCatalog{db: db}
}

// List returns active events ordered by position.
func (s *SQLCatalog) List(ctx context.Context) ([]Event, error) {
	start := time.Now()
	var rows []Event
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(listQuery)); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	out := make([]Event, 0, len(rows))
	for _, r := range rows {
		out = append(out, New(r.Title, r.Date, r.Link))
	}
	logger.Debug(ctx, "service.events", "events.list",
		slog.String("status", "ok"),
		slog.Int("count", len(out)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return out, nil
}

// Seed inserts list into an empty events table. A table that already has
// rows is left alone so operators can manage events in the database.
func Seed(ctx context.Context, db *sqlx.DB, list []Event) (int, error) {
	var existing int
	if err := db.GetContext(ctx, &existing, `SELECT COUNT(*) FROM events`); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	if existing > 0 || len(list) == 0 {
		return 0, nil
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insert := tx.Rebind(`INSERT INTO events (id, title, starts_at, link, position) VALUES (?, ?, ?, ?, ?)`)
	for i, e := range list {
		if _, err := tx.ExecContext(ctx, insert, i+1, e.Title, e.Date, e.Link, i+1); err != nil {
			return 0, fmt.Errorf("insert event %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return len(list), nil
}

// Seeder returns a bootstrap seeder that loads list via Seed.
func Seeder(list []Event) bootstrap.Seeder {
	return bootstrap.SeederFunc{
		Label: "events",
		Fn: func(ctx context.Context, db *sqlx.DB) error {
			n, err := Seed(ctx, db, list)
			if err != nil {
				return err
			}
			logger.Info(ctx, "db.seed", "events.seeded",
				slog.String("status", "ok"),
				slog.Int("count", n),
			)
			return nil
		},
	}
}
