package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/akvaproffi/storefront/api"
	"github.com/akvaproffi/storefront/api/routes"
	"github.com/akvaproffi/storefront/internal/auth"
	"github.com/akvaproffi/storefront/internal/cart"
	"github.com/akvaproffi/storefront/internal/catalog"
	"github.com/akvaproffi/storefront/internal/checkout"
	"github.com/akvaproffi/storefront/internal/favorites"
	"github.com/akvaproffi/storefront/internal/orders"
	"github.com/akvaproffi/storefront/internal/paymentmethods"
	"github.com/akvaproffi/storefront/internal/users"
	"github.com/akvaproffi/storefront/pkg/auth/session"
	"github.com/akvaproffi/storefront/pkg/config"
	"github.com/akvaproffi/storefront/pkg/db"
	"github.com/akvaproffi/storefront/pkg/logger"
	"github.com/akvaproffi/storefront/pkg/metrics"
	"github.com/akvaproffi/storefront/pkg/migrate"
	"github.com/akvaproffi/storefront/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc, err := buildServices(cfg, logg, dbClient, redisClient, sessionManager, registry)
	if err != nil {
		return err
	}

	handler := routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, registry, svc)
	server := api.NewServer(cfg, handler)

	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     server.Addr,
		"instance": id,
	})
	logg.Info(logCtx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(logCtx), api.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	sessionManager *session.Manager,
	registry prometheus.Registerer,
) (routes.Services, error) {
	userRepo := users.NewRepository(dbClient.DB())
	favoritesRepo := favorites.NewRepository(dbClient.DB())

	cartService, err := cart.NewService(cart.ServiceParams{Repo: cart.NewRepository(dbClient.DB())})
	if err != nil {
		return routes.Services{}, err
	}
	favoritesService, err := favorites.NewService(favorites.ServiceParams{Repo: favoritesRepo})
	if err != nil {
		return routes.Services{}, err
	}
	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:              orders.NewRepository(dbClient.DB()),
		TransactionRunner: dbClient,
		OrderNumberPrefix: cfg.Checkout.OrderNumberPrefix,
	})
	if err != nil {
		return routes.Services{}, err
	}
	paymentService, err := paymentmethods.NewService(paymentmethods.ServiceParams{
		Repo:              paymentmethods.NewRepository(dbClient.DB()),
		TransactionRunner: dbClient,
	})
	if err != nil {
		return routes.Services{}, err
	}
	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Cart:           cartService,
		PaymentMethods: paymentService,
		Orders:         ordersService,
		Metrics:        metrics.NewCheckoutMetrics(registry),
		Logger:         logg,
	})
	if err != nil {
		return routes.Services{}, err
	}
	usersService, err := users.NewService(users.ServiceParams{
		Repo:      userRepo,
		Orders:    ordersService,
		Favorites: favoritesRepo,
		Avatar: users.AvatarPolicy{
			MaxBytes:     cfg.Avatar.MaxBytes,
			AllowedTypes: cfg.Avatar.AllowedTypes,
		},
	})
	if err != nil {
		return routes.Services{}, err
	}
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		AuthConfig:     cfg.Auth,
		Limiter:        redisClient,
	})
	if err != nil {
		return routes.Services{}, err
	}
	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		UserRepo:       userRepo,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:           authService,
		Register:       registerService,
		Users:          usersService,
		Cart:           cartService,
		Favorites:      favoritesService,
		Checkout:       checkoutService,
		Orders:         ordersService,
		PaymentMethods: paymentService,
		Catalog:        catalog.Default(),
	}, nil
}
