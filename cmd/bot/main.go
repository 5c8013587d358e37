package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	codegen "github.com/set-night/codegen"
	"github.com/set-night/codegen/internal/broadcast"
	"github.com/set-night/codegen/internal/chat"
	"github.com/set-night/codegen/internal/config"
	"github.com/set-night/codegen/internal/handler"
	"github.com/set-night/codegen/internal/metrics"
	"github.com/set-night/codegen/internal/middleware"
	"github.com/set-night/codegen/internal/repository"
	"github.com/set-night/codegen/internal/server"
	"github.com/set-night/codegen/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.LoadBot()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(codegen.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	// Remote endpoints
	clients := chat.Clients{
		Accounts:   service.NewAccountService(cfg.AuthURL, cfg.RequestTimeout, collector),
		Payments:   service.NewPaymentService(cfg.PaymentURL, cfg.RequestTimeout, collector),
		Generation: service.NewGenerationService(cfg.GenerateURL, cfg.GenerateTimeout, collector),
	}

	// Optional cross-replica relay
	var relay chat.Relay
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("failed to parse redis url", "error", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}

		r := broadcast.NewRedisRelay(rdb, config.UserUpdatedChannel)
		go func() {
			if err := r.Run(ctx); err != nil {
				slog.Error("user update relay stopped", "error", err)
			}
		}()
		relay = r
	}

	sessions := repository.NewSessionStore(pool)
	pages := chat.NewRegistry(sessions, clients, relay, config.ChatIdleTTL)
	defer pages.Close()
	go pages.Run(ctx, config.ChatIdleCleanup)

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, config.ChatIdleTTL)
	go limiter.Run(ctx, config.ChatIdleCleanup)

	// Handler pointer for use in default handler closure
	var h *handler.Handler

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.RateLimit(limiter, collector),
			middleware.PageLoader(pages),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil {
				return
			}
			h.HandleDefault(ctx, b, update)
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Warn("failed to drop pending updates", "error", err)
		}
	}

	// Initialize handler
	h = handler.New(handler.Deps{
		Bot: b,
		Cfg: cfg,
	})

	// Register all handlers
	h.Register()

	// Ops server
	go func() {
		if err := server.Start(ctx, cfg.Port, server.NewRouter(registry, sessions, pages)); err != nil {
			slog.Error("ops server stopped", "error", err)
		}
	}()

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID)
	b.Start(ctx)

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}
