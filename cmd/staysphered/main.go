package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/cors"

	"staysphere-backend/config"
	"staysphere-backend/internal/api"
	"staysphere-backend/internal/availability"
	"staysphere-backend/internal/booking"
	"staysphere-backend/internal/calendar"
	"staysphere-backend/internal/db"
	"staysphere-backend/internal/directory"
	"staysphere-backend/internal/logging"
	"staysphere-backend/internal/model"
	"staysphere-backend/internal/notification"
	"staysphere-backend/internal/seed"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration from %s: %v\n", configPath, err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Pretty)
	logger := logging.New("main")
	logger.Info().Str("path", configPath).Msg("configuration loaded")

	// Initialize database
	gormDB, err := db.Init(&cfg.Database, logging.New("db"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calendarStore := calendar.NewGormStore(gormDB)
	if cfg.SeedPath != "" {
		fixtures, err := seed.Read(cfg.SeedPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to read seed file")
		}
		if err := seed.Apply(ctx, gormDB, calendarStore, fixtures); err != nil {
			logger.Fatal().Err(err).Msg("failed to apply seed data")
		}
		logger.Info().Str("path", cfg.SeedPath).Int("properties", len(fixtures.Properties)).Msg("seed data applied")
	}

	// Notification senders
	var webpushOptions *webpush.Options
	senders := notification.MultiSender{notification.LogSender{Log: logging.New("notice")}}
	if cfg.Webhook.URL != "" {
		senders = append(senders, notification.NewWebhookSender(cfg.Webhook.URL, cfg.Webhook.Headers,
			cfg.Webhook.HTTPProxy, cfg.Webhook.Timeout, logging.New("webhook")))
	}
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		senders = append(senders, notification.NewWebPushSender(gormDB, webpushOptions, logging.New("webpush")))
	} else {
		logger.Warn().Msg("VAPID keys not configured, web push notices disabled")
	}

	workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize, senders, logging.New("notifier"))
	workerPool.Start(ctx)

	dir := directory.NewGormDirectory(gormDB, time.Duration(cfg.Directory.CacheTTLSeconds)*time.Second)
	engine := availability.NewEngine(calendarStore, logging.New("availability"))
	ledger := booking.NewLedger(booking.NewGormRepository(gormDB), engine, dir, workerPool, booking.Policy{
		MaxNights:         cfg.Booking.MaxNights,
		CleaningFee:       model.Money(cfg.Booking.CleaningFeeCents),
		ServiceFeePercent: cfg.Booking.ServiceFeePercent,
	}, logging.New("ledger"))

	// Initialize router
	handler := api.NewHandler(api.Deps{
		Ledger:    ledger,
		Engine:    engine,
		Directory: dir,
		DB:        gormDB,
		WebPush:   webpushOptions,
		Log:       logging.New("api"),
	})
	router := api.NewRouter(handler, api.RouterConfig{
		RateLimitPerSec: cfg.Server.RateLimitPerSec,
		RateLimitBurst:  cfg.Server.RateLimitBurst,
		RequestIPHeader: cfg.Server.RequestIPHeader,
		CacheTTL:        time.Duration(cfg.Server.CacheTTLSeconds) * time.Second,
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Cache"},
		AllowCredentials: cfg.CORS.AllowCredentials,
	}).Handler(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: corsHandler,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server ListenAndServe")
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info().Msg("shutdown signal received, stopping services")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSecs)*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown")
	}

	// Queued notices still waiting when workers stop are dropped.
	cancel()
	workerPool.Wait()

	logger.Info().Msg("server gracefully stopped")
}
