package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"cuentas/internal/accounts"
	"cuentas/internal/auth"
	"cuentas/internal/backend"
	"cuentas/internal/cli"
	apphttp "cuentas/internal/http"
	applog "cuentas/internal/log"
	"cuentas/internal/pin"
)

func main() {
	slogger := cli.SetupLogger()
	logger := applog.New(applog.Config{Component: applog.ComponentApp, Handler: slogger.Handler()})
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(slogger)

	factory := backend.NewFactory(slogger)
	result, err := factory.CreateBackend(context.Background(), backend.Config{
		Type:            backend.BackendType(cfg.DataBackend),
		PostgrestURL:    cfg.PostgrestURL,
		PostgrestAPIKey: cfg.PostgrestAPIKey,
		SQLiteDBPath:    cfg.SQLiteDBPath,
		JSONFilePath:    cfg.JSONFilePath,
	})
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	repo := accounts.NewRepository(result.Store)
	gate := auth.NewGate(cfg.MasterPassword, cfg.SessionTTL, nil)
	pins := pin.New(cfg.PinWebhookURL)

	srv := apphttp.NewServer(":"+cfg.Port, repo, gate, pins, logger)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting cuentas server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		gate.PruneLoop(gctx, 10*time.Minute)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
