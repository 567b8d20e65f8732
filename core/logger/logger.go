// Package logger provides the bot's structured slog setup: one flat line per
// event, a fixed key order, update metadata taken from the context and an
// asynchronous writer.
package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/m3rciful/guidebot/core/buildinfo"
	coreconfig "github.com/m3rciful/guidebot/core/config"
)

var (
	initOnce sync.Once
	stopOnce sync.Once

	writer   *asyncWriter
	closers  []io.Closer
	levelVar slog.LevelVar

	debugSampler = newRatioSampler(1, 50)
	traceAll     bool

	// L is the process logger. It is nil until InitLogger succeeds; use the
	// package helpers, which tolerate that.
	L *slog.Logger
)

// InitLogger installs the process logger. Only the first call has effect.
func InitLogger(cfg *coreconfig.Config) error {
	var err error
	initOnce.Do(func() {
		o := resolveOptions(cfg)
		levelVar.Set(o.level)
		debugSampler.Set(o.sampleNum, o.sampleDen)
		traceAll = o.trace

		var outs []io.Writer
		outs, closers, err = openOutputs(o)
		if err != nil {
			return
		}
		writer = newAsyncWriter(outs, 64*1024)
		L = slog.New(newStructuredHandler(handlerConfig{
			level:    &levelVar,
			writer:   writer,
			format:   o.format,
			keyOrder: o.keyOrder,
		}))
		slog.SetDefault(L)

		build := buildinfo.Get()
		Info(context.Background(), "app", "startup",
			slog.String("go_version", build.GoVersion),
			slog.String("build_version", build.Version),
			slog.String("build_commit", build.ShortCommit()),
			slog.String("build_time", build.Date),
			slog.String("cfg_profile", o.profile),
			slog.String("mode", o.mode),
		)
	})
	return err
}

// Shutdown flushes pending lines and closes log files. Later calls are no-ops.
func Shutdown() error {
	var err error
	stopOnce.Do(func() {
		var errs []error
		if writer != nil {
			errs = append(errs, writer.Close())
		}
		for _, c := range closers {
			errs = append(errs, c.Close())
		}
		err = errors.Join(errs...)
	})
	return err
}

// Background is the context for log calls outside update handling.
func Background() context.Context {
	return context.Background()
}

// Component returns L scoped to name, or nil before InitLogger.
func Component(name string) *slog.Logger {
	if L == nil {
		return nil
	}
	if name = strings.TrimSpace(name); name == "" {
		return L
	}
	return L.With("component", name)
}

// LogEvent writes attrs under event through logg, the context logger or L,
// whichever is set first.
func LogEvent(ctx context.Context, logg *slog.Logger, level slog.Level, event string, attrs ...slog.Attr) {
	if logg == nil {
		logg = FromContext(ctx)
	}
	if logg == nil {
		return
	}
	if event != "" {
		attrs = append([]slog.Attr{slog.String("event", event)}, attrs...)
	}
	logg.LogAttrs(ctx, level, "", attrs...)
}

// Event logs event for component at level.
func Event(ctx context.Context, component string, level slog.Level, event string, attrs ...slog.Attr) {
	logg := FromContext(ctx)
	if logg == nil {
		return
	}
	if component = strings.TrimSpace(component); component != "" {
		logg = logg.With("component", component)
	}
	LogEvent(ctx, logg, level, event, attrs...)
}

func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelDebug, event, attrs...)
}

func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelInfo, event, attrs...)
}

func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelWarn, event, attrs...)
}

func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelError, event, attrs...)
}

// ShouldSampleDebug reports whether a high-volume debug line should be
// written. TRACE=1 lets every line through.
func ShouldSampleDebug() bool {
	return traceAll || debugSampler.Allow()
}
