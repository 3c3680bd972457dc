package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mahfza/admin-service/internal/monitoring"
	"github.com/mahfza/admin-service/internal/server"
	"github.com/mahfza/admin-service/internal/service"
	"github.com/mahfza/admin-service/internal/store"
	"github.com/mahfza/admin-service/internal/telegram"
	"github.com/mahfza/admin-service/internal/tenant"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var (
		port          = flag.Int("port", 8080, "HTTP server port")
		metricsPort   = flag.Int("metrics-port", 8081, "Health check and metrics port")
		dbPath        = flag.String("db", "data/mahfza.db", "Central database path")
		tenantDir     = flag.String("tenant-dir", "data/tenants", "Directory for tenant databases")
		botToken      = flag.String("bot-token", os.Getenv("TELEGRAM_BOT_TOKEN"), "Telegram bot token")
		adminChatID   = flag.String("admin-chat-id", os.Getenv("TELEGRAM_ADMIN_CHAT_ID"), "Telegram admin chat id")
		webhookSecret = flag.String("webhook-secret", os.Getenv("TELEGRAM_WEBHOOK_SECRET"), "Telegram webhook secret token")
		webhookURL    = flag.String("webhook-url", "", "Public webhook URL to register with Telegram")
		redisAddr     = flag.String("redis-addr", "", "Redis address for company caching (optional)")
	)
	flag.Parse()

	db, err := store.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open central database")
	}
	defer db.Close()

	var cache store.RedisClient
	if *redisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: *redisAddr})
		log.Info().Str("addr", *redisAddr).Msg("Company cache enabled")
	}

	registry := tenant.NewRegistry(*tenantDir)
	defer registry.Close()

	companyRepo := store.NewCompanyRepository(db, cache)
	ticketRepo := store.NewTicketRepository(db)
	adminRepo := store.NewAdminRepository(db)

	bot := telegram.NewBotService(telegram.Config{
		BotToken:      *botToken,
		AdminChatID:   *adminChatID,
		WebhookSecret: *webhookSecret,
	})

	companyService := service.NewCompanyService(companyRepo, registry)
	engine := service.NewTicketEngine(ticketRepo, companyRepo, telegram.NewNotifier(bot))
	interpreter := telegram.NewInterpreter(engine, companyService, bot, *adminChatID)

	monitoring.InitMetrics()

	if *webhookURL != "" {
		if err := bot.SetWebhook(*webhookURL); err != nil {
			log.Error().Err(err).Msg("Failed to register Telegram webhook")
		} else {
			log.Info().Str("url", *webhookURL).Msg("Telegram webhook registered")
		}
	}

	router := server.NewRouter(server.Deps{
		Companies:     companyService,
		Engine:        engine,
		Interpreter:   interpreter,
		Admins:        adminRepo,
		WebhookSecret: *webhookSecret,
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: router,
	}

	go func() {
		log.Info().Msgf("Starting admin service on port %d", *port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		mux.Handle("/metrics", promhttp.Handler())

		metricsServer := &http.Server{
			Addr:    fmt.Sprintf(":%d", *metricsPort),
			Handler: mux,
		}

		log.Info().Msgf("HTTP server for health checks and metrics started on port %d", *metricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Metrics server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	log.Info().Msg("Server exiting")
}
