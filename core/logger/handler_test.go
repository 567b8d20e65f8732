package logger

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"log/slog"
)

func newTestHandler(buf *bytes.Buffer, format logFormat) (*structuredHandler, *asyncWriter) {
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	return newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   format,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	}), aw
}

func drain(t *testing.T, aw *asyncWriter) {
	t.Helper()
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestStructuredHandlerKVOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	handler, aw := newTestHandler(buf, formatKV)
	ctx := WithRID(Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	log := slog.New(handler).With("component", "service.guide")
	LogEvent(ctx, log, slog.LevelInfo, "guide.step",
		slog.String("status", "ok"),
		slog.Int("step", 2),
		slog.Int("steps_total", 6),
	)
	drain(t, aw)

	line := strings.TrimSpace(buf.String())
	tokens := strings.Split(line, " ")
	expected := []string{"ts=", "level=INFO", "component=service.guide", "event=guide.step", "status=ok", "rid=rid-123", "update_id=42", "user_id=7", "chat_id=9", "step=2", "steps_total=6"}
	if len(tokens) < len(expected) {
		t.Fatalf("unexpected token count: %d (%s)", len(tokens), line)
	}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
}

func TestStructuredHandlerJSONOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	handler, aw := newTestHandler(buf, formatJSON)
	ctx := WithRID(Background(), "rid-json")
	ctx = WithUpdateMeta(ctx, 11, 22, 33)

	log := slog.New(handler).With("component", "service.menu")
	LogEvent(ctx, log, slog.LevelError, "menu.edit_failed",
		slog.String("status", "fail"),
		slog.String("err", "message to edit not found"),
	)
	drain(t, aw)

	line := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(line, "{") {
		t.Fatalf("expected JSON, got %s", line)
	}
	prefixes := []string{`{"ts":`, `"level":"ERROR"`, `"component":"service.menu"`, `"event":"menu.edit_failed"`, `"status":"fail"`, `"rid":"rid-json"`, `"err":`}
	pos := -1
	for _, pref := range prefixes {
		idx := strings.Index(line, pref)
		if idx == -1 || idx < pos {
			t.Fatalf("prefix %s not found in order within %s", pref, line)
		}
		pos = idx
	}
}

func TestStructuredHandlerCompactRID(t *testing.T) {
	buf := &bytes.Buffer{}
	handler, aw := newTestHandler(buf, formatJSON)
	rawRID := BuildRID(12, 34, 56)
	ctx := WithRID(Background(), rawRID)
	LogEvent(ctx, slog.New(handler), slog.LevelInfo, "rid.test")
	drain(t, aw)

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, `"rid":"`+CompactRID(rawRID)+`"`) {
		t.Fatalf("expected compact rid in JSON, got %s", line)
	}
	if !strings.Contains(line, `"rid_full":"`+rawRID+`"`) {
		t.Fatalf("expected rid_full in JSON output, got %s", line)
	}
	if !strings.Contains(line, `"component":"app"`) {
		t.Fatalf("expected default component, got %s", line)
	}
}

func TestStructuredHandlerDurationsAndOutcome(t *testing.T) {
	buf := &bytes.Buffer{}
	handler, aw := newTestHandler(buf, formatKV)
	log := slog.New(handler)
	log.Info("handler.handled",
		slog.Duration("duration", 1499*time.Microsecond),
		slog.Duration("startup_duration", 2*time.Second),
		slog.String("outcome", "exploded"),
		slog.String("payload", ""),
	)
	drain(t, aw)

	line := strings.TrimSpace(buf.String())
	for _, want := range []string{"duration_ms=1", "startup_duration_ms=2000", "event=handler.handled"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %s", want, line)
		}
	}
	if strings.Contains(line, "outcome=") {
		t.Fatalf("unknown outcome should be dropped: %s", line)
	}
	if strings.Contains(line, "payload=") {
		t.Fatalf("empty values should be pruned: %s", line)
	}
}

func TestHandlerRespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	handler, aw := newTestHandler(buf, formatKV)
	slog.New(handler).Debug("too.quiet")
	drain(t, aw)
	if buf.Len() != 0 {
		t.Fatalf("debug line should be filtered, got %q", buf.String())
	}
}

func TestSanitizeLimit(t *testing.T) {
	got := SanitizeLimit("next:\u00033\u200b\tok", 6)
	if got != "next:3" {
		t.Fatalf("SanitizeLimit = %q", got)
	}
	if SanitizeLimit("abc", 0) != "" {
		t.Fatal("zero limit should produce empty string")
	}
}

func TestRatioSampler(t *testing.T) {
	s := newRatioSampler(1, 3)
	var allowed int
	for i := 0; i < 9; i++ {
		if s.Allow() {
			allowed++
		}
	}
	if allowed != 3 {
		t.Fatalf("allowed = %d, want 3", allowed)
	}
	s.Set(0, 0)
	if !s.Allow() {
		t.Fatal("disabled sampler should allow everything")
	}
	if num, den := parseRatioSpec("25"); num != 1 || den != 25 {
		t.Fatalf("parseRatioSpec(25) = %d/%d", num, den)
	}
}
