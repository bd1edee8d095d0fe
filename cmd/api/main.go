// @title Eventhub API
// @version 1.0
// @description Event listing and booking service.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"eventhub/config"
	_ "eventhub/docs"
	"eventhub/internal/adapters/auth"
	"eventhub/internal/adapters/calendar"
	"eventhub/internal/adapters/email"
	"eventhub/internal/adapters/image"
	"eventhub/internal/adapters/ticket"
	httpdelivery "eventhub/internal/delivery/http"
	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/metrics"
	"eventhub/internal/repository"
	"eventhub/internal/repository/cache"
	"eventhub/internal/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	logger := config.NewLogger()
	slog.SetDefault(logger)
	if err != nil {
		logger.Error("configuration error", "err", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ----------------------------------------------------------
	st, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Warn("closing storage", "err", err)
		}
	}()

	eventRepo := st.Events
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		eventRepo = cache.NewEventRepository(eventRepo, rdb, cfg.CacheTTL, logger)
		logger.Info("event cache enabled", "ttl", cfg.CacheTTL)
	}

	// --- Services ---------------------------------------------------------
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddr,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.AWSRegion,
			AccessKeyID:        cfg.AWSAccessKeyID,
			SecretAccessKey:    cfg.AWSSecretKey,
			InsecureSkipVerify: cfg.SESInsecureTLS,
		},
	}, logger)
	if err != nil {
		return err
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}
	emailService := services.NewEmailService(mailer, renderer, ticket.NewQREncoder(0), logger)

	eventService := services.NewEventService(eventRepo, cfg.RequestTimeout)
	bookingService := services.NewBookingService(st.Bookings, eventService, emailService, cfg.PublicBaseURL, cfg.RequestTimeout, logger)
	queryService := services.NewQueryService(eventService)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return err
	}

	// --- HTTP -------------------------------------------------------------
	m := metrics.New(prometheus.DefaultRegisterer)
	eventController := controllers.NewEventController(
		logger,
		eventService,
		queryService,
		bookingService,
		image.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL),
		calendar.NewICSExporter(cfg.PublicBaseURL, cfg.EmailFromAddr),
		m,
	)
	bookingController := controllers.NewBookingController(logger, bookingService, m)

	routerCfg := httpdelivery.RouterConfig{
		Events:         eventController,
		Bookings:       bookingController,
		BookingLimiter: middleware.NewRateLimiter(cfg.BookingsPerMin),
		UploadDir:      cfg.UploadDir,
		Ping:           st.Ping,
	}
	if cfg.AdminJWTSecret != "" {
		routerCfg.RequireAdmin = middleware.RequireAuth(auth.NewJWTVerifier(cfg.AdminJWTSecret, auth.RoleOrganizer), logger)
	} else {
		logger.Warn("ADMIN_JWT_SECRET is not set, event creation is open")
	}
	mux := httpdelivery.NewRouter(routerCfg)

	var handler http.Handler = mux
	handler = middleware.Metrics(m, handler)
	handler = middleware.CORS(cfg.CORSOrigins, handler)
	handler = middleware.LoggingMiddleware(logger, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "store", cfg.StoreDriver, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
