package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	coreconfig "github.com/m3rciful/guidebot/core/config"
)

// options is the logging section of the config after defaults.
type options struct {
	level     slog.Level
	format    logFormat
	keyOrder  []string
	sampleNum int
	sampleDen int
	trace     bool
	profile   string
	mode      string
	dir, file string
}

func resolveOptions(cfg *coreconfig.Config) options {
	o := options{
		level:     slog.LevelInfo,
		format:    formatJSON,
		keyOrder:  defaultKeyOrder,
		sampleNum: 1,
		sampleDen: 50,
		trace:     truthy(os.Getenv("TRACE")) || truthy(os.Getenv("LOG_TRACE")),
		profile:   "prod",
	}
	if cfg == nil {
		return o
	}
	lc := cfg.Logging
	o.mode = cfg.Telegram.RunMode
	if p := strings.ToLower(strings.TrimSpace(lc.Profile)); p != "" {
		o.profile = p
	}

	switch strings.ToLower(strings.TrimSpace(lc.Level)) {
	case "debug":
		o.level = slog.LevelDebug
	case "warn", "warning":
		o.level = slog.LevelWarn
	case "error":
		o.level = slog.LevelError
	}

	switch strings.ToLower(strings.TrimSpace(lc.Format)) {
	case "kv", "text", "pretty":
		o.format = formatKV
	case "json":
	default:
		if o.profile == "debug" || o.profile == "dev" {
			o.format = formatKV
		}
	}

	if raw := strings.TrimSpace(lc.KeysOrder); raw != "" && raw != "default" {
		var order []string
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				order = append(order, k)
			}
		}
		if len(order) > 0 {
			o.keyOrder = order
		}
	}

	if spec := strings.TrimSpace(lc.DebugSample); spec != "" {
		num, den := parseRatioSpec(spec)
		switch {
		case spec == "0" || spec == "0/0":
			o.sampleNum, o.sampleDen = 0, 0
		case num > 0 && den > 0:
			o.sampleNum, o.sampleDen = num, den
		}
	}

	o.dir, o.file = strings.TrimSpace(lc.Dir), strings.TrimSpace(lc.BotFile)
	return o
}

// openOutputs returns stdout plus the optional log file.
func openOutputs(o options) ([]io.Writer, []io.Closer, error) {
	outs := []io.Writer{os.Stdout}
	if o.dir == "" || o.file == "" {
		return outs, nil, nil
	}
	if err := os.MkdirAll(o.dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("logger: create %s: %w", o.dir, err)
	}
	path := filepath.Join(o.dir, o.file)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: open %s: %w", path, err)
	}
	return append(outs, f), []io.Closer{f}, nil
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
