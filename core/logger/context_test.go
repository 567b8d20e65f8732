package logger

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	coreconfig "github.com/m3rciful/guidebot/core/config"
)

func TestMetaAccumulates(t *testing.T) {
	var empty context.Context
	ctx := WithRID(empty, "1:2:3")
	ctx = WithUpdateMeta(ctx, 1, 3, 2)
	ctx = WithHandler(ctx, "start")
	ctx = WithHandler(ctx, "")

	want := Meta{RID: "1:2:3", UpdateID: 1, UserID: 3, ChatID: 2, Handler: "start"}
	if got := MetaFrom(ctx); got != want {
		t.Fatalf("meta = %+v, want %+v", got, want)
	}
	if MetaFrom(empty) != (Meta{}) || MetaFrom(context.Background()) != (Meta{}) {
		t.Fatal("empty contexts should carry zero meta")
	}
}

func TestFromContextPrefersAttachedLogger(t *testing.T) {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	if FromContext(WithLogger(context.Background(), l)) != l {
		t.Fatal("attached logger not returned")
	}
	if FromContext(WithLogger(context.Background(), nil)) != L {
		t.Fatal("nil logger should fall back to L")
	}
}

func TestExplicitAttrsWinOverMeta(t *testing.T) {
	buf := &bytes.Buffer{}
	handler, aw := newTestHandler(buf, formatKV)
	ctx := WithMeta(Background(), Meta{UserID: 7, Handler: "start"})
	LogEvent(ctx, slog.New(handler), slog.LevelInfo, "menu.shown", slog.String("handler", "callback.guide_menu"))
	drain(t, aw)
	line := buf.String()
	if !strings.Contains(line, "handler=callback.guide_menu") || !strings.Contains(line, "user_id=7") {
		t.Fatalf("line = %s", line)
	}
}

func TestWriterRejectsAfterClose(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 4)
	if err := aw.Write([]byte("one\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if buf.String() != "one\n" {
		t.Fatalf("queued line lost: %q", buf.String())
	}
	if err := aw.Write([]byte("two\n")); !errors.Is(err, errWriterClosed) {
		t.Fatalf("err = %v", err)
	}
}

func TestResolveOptions(t *testing.T) {
	t.Setenv("TRACE", "yes")
	o := resolveOptions(&coreconfig.Config{
		Telegram: coreconfig.TelegramConfig{RunMode: "webhook"},
		Logging: coreconfig.LoggingConfig{
			Level:       "WARNING",
			Profile:     "debug",
			KeysOrder:   "ts, event ,level",
			DebugSample: "1/4",
		},
	})
	if o.level != slog.LevelWarn || o.format != formatKV || !o.trace || o.mode != "webhook" {
		t.Fatalf("options = %+v", o)
	}
	if len(o.keyOrder) != 3 || o.keyOrder[1] != "event" {
		t.Fatalf("key order = %v", o.keyOrder)
	}
	if o.sampleNum != 1 || o.sampleDen != 4 {
		t.Fatalf("sample = %d/%d", o.sampleNum, o.sampleDen)
	}
	if d := resolveOptions(nil); d.format != formatJSON || d.level != slog.LevelInfo {
		t.Fatalf("defaults = %+v", d)
	}
}

func TestOpenOutputsWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	outs, closers, err := openOutputs(options{dir: dir, file: "bot.log"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(outs) != 2 || len(closers) != 1 {
		t.Fatalf("outs = %d closers = %d", len(outs), len(closers))
	}
	_ = closers[0].Close()
	if _, err := os.Stat(filepath.Join(dir, "bot.log")); err != nil {
		t.Fatalf("stat: %v", err)
	}
}
