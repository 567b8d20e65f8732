package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/m3rciful/guidebot/core/logger"
)

const migrateLog = "db.migrate"

// RunMigrations applies every pending up migration from cfg.MigrationsDir.
// Postgres is given time to accept queries first.
func RunMigrations(cfg Config) error {
	if !cfg.Enabled() {
		return nil
	}
	ctx := logger.Background()
	if cfg.Driver == DriverPostgres {
		waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := WaitReady(waitCtx, cfg)
		cancel()
		if err != nil {
			logger.Error(ctx, migrateLog, "db.not_ready", slog.String("err", err.Error()))
			return fmt.Errorf("database not ready: %w", err)
		}
	}

	dir, err := filepath.Abs(cfg.MigrationsDir)
	if err != nil {
		return fmt.Errorf("resolve migrations dir: %w", err)
	}
	files := listMigrationFiles(dir)
	preview, cut := logger.SummarizeStrings(files, 6)
	logger.Debug(ctx, migrateLog, "migrate.resolve",
		slog.String("path", dir),
		slog.Int("count", len(files)),
		slog.String("files", preview),
		slog.Bool("truncated", cut),
	)

	m, err := migrate.New("file://"+filepath.ToSlash(dir), cfg.MigrateURL())
	if err != nil {
		logger.Error(ctx, migrateLog, "migrate.init", slog.String("status", "fail"), slog.String("err", err.Error()))
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	from, _, _ := m.Version()
	start := time.Now()
	err = m.Up()
	took := logger.Took(start)
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error(ctx, migrateLog, "migrate.apply",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
			slog.Duration("duration", took),
		)
		return fmt.Errorf("apply migrations: %w", err)
	}
	to, _, _ := m.Version()

	applied := selectApplied(files, uint64(from), uint64(to))
	preview, cut = logger.SummarizeStrings(applied, 6)
	logger.Info(ctx, migrateLog, "migrate.summary",
		slog.String("status", "ok"),
		slog.Uint64("from_ver", uint64(from)),
		slog.Uint64("to_ver", uint64(to)),
		slog.Int("count", len(applied)),
		slog.String("files", preview),
		slog.Bool("truncated", cut),
		slog.Duration("duration", took),
	)
	return nil
}

// listMigrationFiles returns the sorted *.up.sql names in dir.
func listMigrationFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names
}

func parseVersion(name string) uint64 {
	prefix, _, _ := strings.Cut(name, "_")
	v, _ := strconv.ParseUint(prefix, 10, 64)
	return v
}

// selectApplied returns files with versions in (from, to].
func selectApplied(files []string, from, to uint64) []string {
	var out []string
	for _, f := range files {
		if v := parseVersion(f); v > from && v <= to {
			out = append(out, f)
		}
	}
	return out
}

func countApplied(files []string, from, to uint64) int {
	return len(selectApplied(files, from, to))
}
