package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jaminalder/tictactoe-timetravel/internal/app"
	"github.com/jaminalder/tictactoe-timetravel/internal/config"
	"github.com/jaminalder/tictactoe-timetravel/internal/web"
)

const shutdownTimeout = 5 * time.Second

func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	configPath := flag.String("config", "config.yml", "path to the YAML config file")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	log := initLogger(conf)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, conf); err != nil {
		log.Error("app run failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

// initLogger builds a production JSON logger at the configured level.
func initLogger(conf *config.Config) *zap.Logger {
	level, err := zapcore.ParseLevel(conf.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	log, err := zc.Build()
	if err != nil {
		panic(fmt.Errorf("failed to build logger: %w", err))
	}
	return log
}

func run(ctx context.Context, log *zap.Logger, conf *config.Config) error {
	svc := app.NewService(log)
	handler := web.NewServer(svc, log, web.Options{
		CookieName: conf.Session.CookieName,
		Heartbeat:  conf.Events.Heartbeat,
	})

	go svc.RunJanitor(ctx, conf.Session.SweepInterval, conf.Session.IdleTTL)

	srv := &http.Server{
		Addr:         conf.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  conf.HTTP.ReadTimeout,
		WriteTimeout: conf.HTTP.WriteTimeout,
		IdleTimeout:  conf.HTTP.IdleTimeout,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", zap.String("addr", conf.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	return nil
}
