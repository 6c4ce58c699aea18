package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"umkm-terminal/config"
	"umkm-terminal/internal/adapter/chain"
	httpHandler "umkm-terminal/internal/adapter/http/handler"
	"umkm-terminal/internal/adapter/http/middleware"
	"umkm-terminal/internal/adapter/storage/memory"
	pgStorage "umkm-terminal/internal/adapter/storage/postgres"
	redisStorage "umkm-terminal/internal/adapter/storage/redis"
	"umkm-terminal/internal/core/ports"
	"umkm-terminal/internal/service"
	"umkm-terminal/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Int64("chain_id", cfg.Chain.ChainID).
		Msg("Starting UMKM Terminal")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	if cfg.Database.AutoMigrate {
		if err := pgStorage.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply schema")
		}
	}

	healthCheckers := []ports.HealthChecker{pgStorage.NewHealthCheck(pool)}

	// Redis backs rate limiting and the sweep lock. Without it both fall
	// back to process-local behaviour.
	var (
		rateLimitStore ports.RateLimitStore
		sweepLock      ports.SweepLock
	)
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")

		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		sweepLock = redisStorage.NewSweepLock(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	} else {
		log.Warn().Msg("Redis disabled: in-process rate limiting, sweeps not locked across instances")
		rateLimitStore = memory.NewRateLimitStore(middleware.MaxRuleWindow(middleware.DefaultRateLimitRules()), nil)
	}

	// Chain RPC
	ethClient, err := chain.Dial(ctx, cfg.Chain, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to chain RPC")
	}
	defer ethClient.Close()
	healthCheckers = append(healthCheckers, chain.NewHealthCheck(ethClient))

	// Repositories
	userRepo := pgStorage.NewUserRepo(pool)
	burnerRepo := pgStorage.NewBurnerRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)

	// Core services
	vault, err := service.NewScryptVault(cfg.Vault.Secret, cfg.Vault.Salt)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize key vault")
	}
	sessionSvc := service.NewSessionService(vault, cfg.Session.TTL, nil)
	burnerSvc := service.NewBurnerService(burnerRepo, vault, ethClient, nil, logger.Component(log, "burner"))
	sweeper := service.NewEVMSweepExecutor(ethClient, service.SweepConfig{
		ChainID:             cfg.Chain.ChainID,
		ReceiptTimeout:      cfg.Chain.ReceiptTimeout,
		ReceiptPollInterval: cfg.Chain.ReceiptPollInterval,
	}, logger.Component(log, "sweeper"))
	notifier := buildNotifier(cfg, logger.Component(log, "notifier"))

	recoverySvc := service.NewRecoveryService(burnerRepo, vault, sweeper, notifier, cfg.Recovery.Workers, logger.Component(log, "recovery"))
	scheduler := service.NewSweepScheduler(recoverySvc, sweepLock, cfg.Recovery.LockTTL, cfg.Recovery.Interval, logger.Component(log, "scheduler"))
	go scheduler.Run(ctx)

	authSvc := service.NewAuthService(userRepo, vault, sessionSvc, service.TelegramAuthConfig{
		BotToken:       cfg.Telegram.BotToken,
		InitDataMaxAge: cfg.Telegram.InitDataMaxAge,
		AllowedUserIDs: cfg.Telegram.AllowedUserIDs,
	}, nil, logger.Component(log, "auth"))
	auditSvc := service.NewAuditService(auditRepo, logger.Component(log, "audit"))

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		SessionSvc:     sessionSvc,
		BurnerSvc:      burnerSvc,
		RecoverySvc:    recoverySvc,
		Sweeper:        scheduler,
		RateLimitStore: rateLimitStore,
		HealthCheckers: healthCheckers,
		AuditSvc:       auditSvc,
		Cookie: httpHandler.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.Secure,
		},
		CronSecret: cfg.Cron.Secret,
		Logger:     log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// buildNotifier wires every configured admin channel. A Telegram failure at
// startup only disables that channel.
func buildNotifier(cfg *config.Config, log zerolog.Logger) ports.Notifier {
	var targets service.MultiNotifier

	if cfg.Telegram.AdminChatID != 0 {
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
		if err != nil {
			log.Warn().Err(err).Msg("Telegram bot unavailable, admin chat notifications disabled")
		} else {
			targets = append(targets, service.NewTelegramNotifier(bot, cfg.Telegram.AdminChatID))
		}
	}

	if cfg.Notify.WebhookURL != "" {
		httpClient := &http.Client{Timeout: 10 * time.Second}
		targets = append(targets, service.NewWebhookNotifier(cfg.Notify.WebhookURL, cfg.Notify.WebhookSecret, httpClient, nil, log))
	}

	if len(targets) == 0 {
		log.Warn().Msg("No admin notification channel configured")
		return service.NopNotifier{}
	}
	return targets
}
