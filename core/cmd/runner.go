// Package cmd is the process entry point shared by bot binaries: it resolves
// the config path, bootstraps the application and runs it until a signal.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	coreconfig "github.com/m3rciful/guidebot/core/config"
	"github.com/m3rciful/guidebot/core/logger"
	coretelegram "github.com/m3rciful/guidebot/core/telegram"
)

const (
	DefaultConfigEnvVar = "CONFIG_PATH"
	DefaultConfigPath   = "configs/config.yaml"
)

// ConfigCarrier is an application config embedding the core one.
type ConfigCarrier interface {
	CoreConfig() *coreconfig.Config
}

// TelegramApp builds the runtime options of a bootstrapped application.
// Apps that also implement io.Closer are closed when building them fails.
type TelegramApp interface {
	TelegramRunOptions() (coretelegram.RunOptions, error)
}

// Options wires Run. LoadConfig and Bootstrap are required; the rest
// default to the production implementations.
type Options struct {
	ConfigEnvVar      string
	DefaultConfigPath string

	LoadConfig func(path string) (ConfigCarrier, error)
	Bootstrap  func(cfg ConfigCarrier) (TelegramApp, error)

	ShutdownLogger func() error
	RunTelegram    func(ctx context.Context, opts coretelegram.RunOptions) error
}

func (o Options) configPath() string {
	env := o.ConfigEnvVar
	if env == "" {
		env = DefaultConfigEnvVar
	}
	for _, p := range []string{os.Getenv(env), o.DefaultConfigPath} {
		if p != "" {
			return p
		}
	}
	return DefaultConfigPath
}

// Run loads the config, bootstraps the app and blocks until SIGINT/SIGTERM.
func Run(opts Options) error {
	switch {
	case opts.LoadConfig == nil:
		return errors.New("cmd: LoadConfig is required")
	case opts.Bootstrap == nil:
		return errors.New("cmd: Bootstrap is required")
	}
	startedAt := time.Now()

	path := opts.configPath()
	log.Printf("loading config: %s", path)
	cfg, err := opts.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("cmd: load config %s: %w", path, err)
	}
	if cfg.CoreConfig() == nil {
		return errors.New("cmd: config carries no core section")
	}

	app, err := opts.Bootstrap(cfg)
	if err != nil {
		return fmt.Errorf("cmd: bootstrap: %w", err)
	}
	defer flushLogs(opts.ShutdownLogger)

	runOpts, err := app.TelegramRunOptions()
	if err != nil {
		if closer, ok := app.(io.Closer); ok {
			_ = closer.Close()
		}
		return fmt.Errorf("cmd: telegram options: %w", err)
	}
	announceLifecycle(&runOpts, startedAt)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	run := opts.RunTelegram
	if run == nil {
		run = coretelegram.RunTelegram
	}
	return run(ctx, runOpts)
}

func flushLogs(shutdown func() error) {
	if shutdown == nil {
		shutdown = logger.Shutdown
	}
	if err := shutdown(); err != nil {
		log.Printf("logger shutdown: %v", err)
	}
}

// announceLifecycle logs app.ready after the app's own OnStart succeeds and
// app.shutdown before its OnStop runs.
func announceLifecycle(o *coretelegram.RunOptions, startedAt time.Time) {
	onStart, onStop := o.OnStart, o.OnStop
	o.OnStart = func(ctx context.Context, rt coretelegram.Runtime) error {
		if onStart != nil {
			if err := onStart(ctx, rt); err != nil {
				return err
			}
		}
		logger.Info(ctx, "app", "ready", slog.Duration("startup_duration", logger.Took(startedAt)))
		return nil
	}
	o.OnStop = func(ctx context.Context, rt coretelegram.Runtime) error {
		logger.Info(ctx, "app", "shutdown")
		if onStop == nil {
			return nil
		}
		return onStop(ctx, rt)
	}
}
