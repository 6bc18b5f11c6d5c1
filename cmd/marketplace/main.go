package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api/handlers"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api/middleware"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/cache"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/config"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/health"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/metrics"
	repository "github.com/aaravmahajanofficial/multivendor-marketplace/internal/repositories"
	service "github.com/aaravmahajanofficial/multivendor-marketplace/internal/services"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/session"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/telemetry"
	"github.com/aaravmahajanofficial/multivendor-marketplace/pkg/sendGrid"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const version = "1.0.0"

func main() {

	// Load config
	cfg := config.MustLoad()

	// Logger setup
	slog.SetDefault(telemetry.NewLogger(cfg.Log))

	if err := run(cfg); err != nil {
		slog.Error("❌ Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run owns every resource it opens. Returning instead of exiting lets the
// deferred closers run on startup failures too.
func run(cfg *config.Config) error {

	shutdownTracing, err := telemetry.InitTracing(context.Background(), cfg.Otel)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := shutdownTracing(ctx); err != nil {
			slog.Warn("⚠️ Trace exporter shutdown failed", slog.String("error", err.Error()))
		}
	}()

	// Database setup, migrations run before anything is served
	repos, err := repository.New(cfg)
	if err != nil {
		return fmt.Errorf("accessing the database: %w", err)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		return fmt.Errorf("accessing the redis instance: %w", err)
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
		}
	}()

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Warn("Redis tracing not enabled", slog.String("error", err.Error()))
	}

	productCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	defer productCache.Close()

	shippingAmount, err := cfg.Checkout.ShippingAmount()
	if err != nil {
		return fmt.Errorf("invalid shipping configuration: %w", err)
	}

	emailService := sendGrid.NewEmailService(
		cfg.SendGrid.APIKey,
		cfg.SendGrid.FromEmail,
		cfg.SendGrid.FromName,
		sendGrid.WithSandbox(cfg.SendGrid.Sandbox),
	)
	notifier := service.NewEmailNotifier(repos.Notification, emailService, cfg.Notifications.Workers, cfg.Notifications.QueueSize)
	notifier.Start()

	// deferred after the pools so the queue drains while they are still open
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := notifier.Shutdown(ctx); err != nil {
			slog.Warn("⚠️ Notification queue not fully drained", slog.String("error", err.Error()))
		}
	}()

	jwtKey := []byte(cfg.Security.JWTKey)
	tokenTTL := time.Duration(cfg.Security.JWTExpiryHours) * time.Hour

	userService := service.NewUserService(repos.User, repos.Cart, repository.NewRateLimitRepo(redisClient, cfg.RateConfig), repos.Transactor, jwtKey, tokenTTL)
	storeService := service.NewStoreService(repos.Store)
	categoryService := service.NewCategoryService(repos.Category, productCache)
	productService := service.NewProductService(repos.Product, repos.Store, repos.Category, productCache)
	cartService := service.NewCartService(repos.Cart, repos.Product, repos.Transactor)
	checkoutService := service.NewCheckoutService(
		repos.Transactor,
		repos.Cart,
		repos.Product,
		repos.Order,
		service.FlatRateShipping{Amount: shippingAmount},
		productCache,
		notifier,
	)
	orderService := service.NewOrderService(repos.Order)
	reviewService := service.NewReviewService(repos.Review, repos.Product)
	notificationService := service.NewNotificationService(repos.Notification)

	sessions := session.NewManager(cfg.Session, redisClient)
	staging := session.NewStagingCart(sessions)

	apiRouter := api.NewRouter(api.Handlers{
		User:         handlers.NewUserHandler(userService),
		Store:        handlers.NewStoreHandler(storeService),
		Category:     handlers.NewCategoryHandler(categoryService),
		Product:      handlers.NewProductHandler(productService),
		Cart:         handlers.NewCartHandler(cartService, productService, staging),
		Order:        handlers.NewOrderHandler(checkoutService, orderService, cartService, staging),
		Review:       handlers.NewReviewHandler(reviewService),
		Notification: handlers.NewNotificationHandler(notificationService),
	}, middleware.NewAuthMiddleware(jwtKey), sessions)

	healthHandler, err := health.NewHealthHandler(version, &health.Endpoints{
		DB:            repos.DB,
		RedisClient:   redisClient,
		Notifications: notifier,
	})
	if err != nil {
		return fmt.Errorf("creating health checks: %w", err)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", version))

	// Setup router
	rootMux := http.NewServeMux()
	rootMux.Handle("/", apiRouter)
	rootMux.Handle("GET /metrics", metrics.Handler())
	rootMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = rootMux
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "marketplace")

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
			done <- syscall.SIGTERM
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	return nil
}
