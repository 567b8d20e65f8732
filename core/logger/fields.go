package logger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// defaultKeyOrder puts identity first, then guide and menu details, then
// transport and errors. Keys not listed follow in alphabetical order.
var defaultKeyOrder = []string{
	"ts", "level", "component", "event", "status",
	"rid", "rid_full", "ts_unix_nano",
	"update_id", "user_id", "chat_id", "chat_type", "handler",
	"action", "cb_key", "token", "step", "target", "steps_total", "media", "message_id",
	"outcome", "duration_ms", "messages", "kb", "count", "payload",
	"lang", "username", "mode", "listen", "public_url", "http_code",
	"driver", "db", "host", "port",
	"err", "err_code", "cause", "retryable", "attempts", "backoff_ms", "rate_limited",
}

var knownOutcome = map[string]bool{"ok": true, "fail": true, "cancelled": true, "rate_limited": true}

// fieldSet is one log line before encoding.
type fieldSet map[string]any

func (f fieldSet) setDefault(key string, v any) {
	if _, ok := f[key]; !ok {
		f[key] = v
	}
}

func (f fieldSet) str(key string) string {
	switch v := f[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// add flattens attr under prefix and stores its normalized value.
func (f fieldSet) add(prefix string, attr slog.Attr) {
	key := attr.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if key == "" {
		key = prefix
	}
	v := attr.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, child := range v.Group() {
			f.add(key, child)
		}
		return
	}
	if key == "" {
		return
	}
	if k, val, ok := normalizeValue(key, v); ok {
		f[k] = val
	}
}

// tidy canonicalizes level, status and outcome and removes empty values.
// Unknown statuses are kept verbatim; unknown outcomes are dropped.
func (f fieldSet) tidy() {
	f["level"] = levelName(f.str("level"))
	if s := strings.ToLower(strings.TrimSpace(f.str("status"))); s != "" {
		f["status"] = s
	}
	if o := strings.ToLower(strings.TrimSpace(f.str("outcome"))); o != "" {
		if knownOutcome[o] {
			f["outcome"] = o
		} else {
			delete(f, "outcome")
		}
	}
	for k, v := range f {
		switch x := v.(type) {
		case nil:
			delete(f, k)
		case string:
			if x == "" {
				delete(f, k)
			}
		}
	}
}

func levelName(l string) string {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "", "info":
		return "INFO"
	case "debug":
		return "DEBUG"
	case "warn", "warning":
		return "WARN"
	case "error":
		return "ERROR"
	}
	return strings.ToUpper(l)
}

func normalizeValue(key string, v slog.Value) (string, any, bool) {
	switch v.Kind() {
	case slog.KindString:
		return key, strings.TrimSpace(v.String()), true
	case slog.KindBool:
		return key, v.Bool(), true
	case slog.KindInt64:
		return key, v.Int64(), true
	case slog.KindUint64:
		if u := v.Uint64(); u <= math.MaxInt64 {
			return key, int64(u), true
		}
		return key, v.Uint64(), true
	case slog.KindFloat64:
		return key, v.Float64(), true
	case slog.KindDuration:
		return msKey(key), RoundMS(v.Duration()).Milliseconds(), true
	case slog.KindTime:
		return key, v.Time().UTC().Format(time.RFC3339Nano), true
	}
	switch x := v.Any().(type) {
	case nil:
		return key, nil, false
	case error:
		return key, x.Error(), true
	case time.Duration:
		return msKey(key), RoundMS(x).Milliseconds(), true
	case fmt.Stringer:
		return key, x.String(), true
	default:
		return key, fmt.Sprint(x), true
	}
}

// msKey names duration fields so every duration ends in _ms.
func msKey(key string) string {
	if key == "duration" {
		return "duration_ms"
	}
	if strings.HasSuffix(key, "_ms") {
		return key
	}
	return key + "_ms"
}

// keys lists the set's keys: order first, then the rest sorted.
func (f fieldSet) keys(order []string) []string {
	out := make([]string, 0, len(f))
	listed := make(map[string]bool, len(order))
	for _, k := range order {
		if _, ok := f[k]; ok && !listed[k] {
			out = append(out, k)
			listed[k] = true
		}
	}
	var rest []string
	for k := range f {
		if !listed[k] {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(out, rest...)
}

func (f fieldSet) encodeJSON(order []string) ([]byte, error) {
	buf := []byte{'{'}
	for i, k := range f.keys(order) {
		val, err := json.Marshal(f[k])
		if err != nil {
			return nil, fmt.Errorf("logger: encode %s: %w", k, err)
		}
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendQuote(buf, k)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	return append(buf, '}'), nil
}

func (f fieldSet) encodeKV(order []string) []byte {
	var b strings.Builder
	for i, k := range f.keys(order) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		s := fmt.Sprint(f[k])
		if strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
			s = strconv.Quote(s)
		}
		b.WriteString(s)
	}
	return []byte(b.String())
}
