package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/velorahq/velora-api/internal/adminpin"
	"github.com/velorahq/velora-api/internal/brand"
	"github.com/velorahq/velora-api/internal/email/shell"
	"github.com/velorahq/velora-api/internal/http/handlers"
	imw "github.com/velorahq/velora-api/internal/http/middleware"
	"github.com/velorahq/velora-api/internal/platform/auth"
	"github.com/velorahq/velora-api/internal/platform/mailer"
	"github.com/velorahq/velora-api/internal/repo/postgres"
	"github.com/velorahq/velora-api/internal/token"
	"github.com/velorahq/velora-api/pkg/config"
	"github.com/velorahq/velora-api/pkg/database"
	"github.com/velorahq/velora-api/pkg/events"
	"github.com/velorahq/velora-api/pkg/logger"
	mw "github.com/velorahq/velora-api/pkg/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Connect to database
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database.URL, database.Options{
		MinConns:    int32(cfg.Database.MinConns),
		MaxConns:    int32(cfg.Database.MaxConns),
		MaxLifetime: cfg.Database.MaxLifetime,
	})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Optional event bus
	var pub events.Publisher
	if cfg.NATS.Enabled {
		natsPub, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer natsPub.Close()
		pub = natsPub
	}

	// Core email components
	codec, err := token.NewCodec(cfg.Security.TokenSecret)
	if err != nil {
		logger.Error("Failed to initialize token codec", "error", err)
		os.Exit(1)
	}
	pin, err := adminpin.New(cfg.Security.PinSalt, cfg.Security.PinSpec)
	if err != nil {
		logger.Error("Failed to initialize PIN verifier", "error", err)
		os.Exit(1)
	}
	sessions, err := auth.NewSessions(cfg.Security.SessionSecret)
	if err != nil {
		logger.Error("Failed to initialize sessions", "error", err)
		os.Exit(1)
	}
	mailSvc, err := buildMailer(cfg)
	if err != nil {
		logger.Error("Failed to initialize mailer", "error", err)
		os.Exit(1)
	}
	renderer := shell.New(brand.Default)

	// Repositories
	attemptsRepo := postgres.NewAttemptsRepo(pool)
	subscribersRepo := postgres.NewSubscribersRepo(pool)
	leadsRepo := postgres.NewLeadsRepo(pool)

	// Handlers
	attemptsHandler := handlers.NewAttemptsHandler(
		attemptsRepo, mailSvc, codec, renderer, pub,
		cfg.Site.Origin, cfg.Email.FromName, cfg.Email.FromEmail)
	outboxHandler := handlers.NewOutboxHandler(
		pin, sessions, mailSvc, renderer, pub,
		cfg.Security.AdminEmails, cfg.Security.SenderEmails, cfg.Email.FromName)
	subscribeHandler := handlers.NewSubscribeHandler(codec, attemptsRepo, subscribersRepo)
	leadsHandler := handlers.NewLeadsHandler(leadsRepo, pub)

	formLimiter := imw.NewRateLimiter(pool, imw.RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
		KeyFunc:  imw.FormRateLimitKeyFunc,
	})

	// Setup router
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("velora-api"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(mw.CORS([]string{cfg.Site.Origin}))

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(fr chi.Router) {
			fr.Use(formLimiter.Middleware())
			fr.Mount("/bookings/attempts", attemptsHandler.Routes())
			fr.Mount("/leads", leadsHandler.Routes())
		})

		r.Group(func(ar chi.Router) {
			ar.Use(mw.Internal)
			ar.Mount("/admin/outbox", outboxHandler.Routes())
		})
	})

	// Browser-navigated subscribe links from booking emails
	r.Mount("/api/notify", subscribeHandler.Routes())

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down velora-api...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Shutdown error", "error", err)
		}
	}()

	logger.Info("Starting velora-api", "port", cfg.Server.Port, "mail_provider", cfg.Email.Provider)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func buildMailer(cfg *config.Config) (mailer.Service, error) {
	switch cfg.Email.Provider {
	case "mailersend":
		return mailer.NewMailerSend(cfg.Email.MailerSendKey)
	case "smtp":
		return mailer.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPUser, cfg.Email.SMTPPass), nil
	default:
		return mailer.NewDevMailer(), nil
	}
}
