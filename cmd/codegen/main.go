package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/set-night/codegen/internal/cli"
	"github.com/set-night/codegen/internal/config"
	"github.com/set-night/codegen/internal/metrics"
	"github.com/set-night/codegen/internal/service"
	"github.com/set-night/codegen/internal/session"
)

func main() {
	cfg, err := config.LoadCLI()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Diagnostics go to stderr so stdout stays pipeable.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})))

	path := cfg.SessionFile
	if path == "" {
		if path, err = session.DefaultFilePath(); err != nil {
			slog.Error("failed to resolve session file", "error", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.New(cli.Deps{
		Config:     cfg,
		Store:      session.NewFileStore(path),
		Accounts:   service.NewAccountService(cfg.AuthURL, cfg.RequestTimeout, metrics.Noop{}),
		Payments:   service.NewPaymentService(cfg.PaymentURL, cfg.RequestTimeout, metrics.Noop{}),
		Generation: service.NewGenerationService(cfg.GenerateURL, cfg.GenerateTimeout, metrics.Noop{}),
		Opener:     cli.NewBrowserOpener(os.Stdout),
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	})

	code := app.Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
