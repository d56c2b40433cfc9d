package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/life-lessons/api-go/config"
	"github.com/life-lessons/api-go/metrics"
	"github.com/life-lessons/api-go/middleware"
	"github.com/life-lessons/api-go/payments"
	"github.com/life-lessons/api-go/routes"
	"github.com/life-lessons/api-go/services"
	"github.com/life-lessons/api-go/utils"
)

func main() {
	// .env is optional; deployments inject the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		l := utils.NewLogger(os.Getenv("APP_ENV"))
		l.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := utils.NewLogger(cfg.AppEnv)

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := config.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Error().Err(err).Msg("closing store")
		}
	}()
	logger.Info().Str("driver", cfg.StoreDriver).Msg("store connected")

	verifier, err := config.NewVerifier(ctx, cfg)
	if err != nil {
		return err
	}
	limiter, closeLimiter := config.NewRateLimiter(cfg)
	defer closeLimiter()

	presigner := config.NewPresigner(cfg)
	if presigner == nil {
		logger.Warn().Msg("object storage not configured, uploads disabled")
	}
	if cfg.StripeSecretKey == "" {
		logger.Warn().Msg("STRIPE_SECRET_KEY is empty, checkout calls will fail")
	}

	users := services.NewUserService(st.Users())
	m := metrics.New()

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(logger),
		middleware.AccessLog(),
		gin.Recovery(),
		m.Middleware(),
		middleware.CORS(cfg.Origins()),
	)
	routes.SetupRoutes(r, routes.Deps{
		Store:   st,
		Guards:  middleware.NewGuards(verifier, st.Users()),
		Limiter: limiter,
		Metrics: m,
		Lessons: services.NewLessonService(st.Lessons(), st.Users()),
		Users:   users,
		Reports: services.NewReportService(st.Reports(), st.Lessons(), st.Users()),
		Payments: services.NewPaymentService(payments.NewStripeProvider(cfg.StripeSecretKey), users, services.CheckoutConfig{
			ClientURL:   cfg.ClientURL,
			ProductName: cfg.PremiumProductName,
			UnitAmount:  cfg.PremiumPrice,
			Currency:    cfg.PremiumCurrency,
		}),
		Uploads: services.NewUploadService(presigner),
		Stats:   services.NewStatsService(st),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("starting server")
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

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
