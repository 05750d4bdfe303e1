package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akvaproffi/storefront/api/controllers"
	"github.com/akvaproffi/storefront/api/handlers"
	"github.com/akvaproffi/storefront/api/middleware"
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
	"github.com/akvaproffi/storefront/pkg/redis"
)

const checkoutReplayTTL = 24 * time.Hour

// RedisStore is the part of the redis client the HTTP layer needs.
type RedisStore interface {
	Ping(ctx context.Context) error
	middleware.RateLimitStore
	redis.IdempotencyStore
}

// Services are the domain services behind the Persistence, Authentication
// and Catalog endpoints.
type Services struct {
	Auth           auth.Service
	Register       auth.RegisterService
	Users          users.Service
	Cart           cart.Service
	Favorites      favorites.Service
	Checkout       checkout.Service
	Orders         orders.Service
	PaymentMethods paymentmethods.Service
	Catalog        *catalog.Catalog
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	store RedisStore,
	sessions session.AccessSessionChecker,
	registry *prometheus.Registry,
	svc Services,
) http.Handler {
	var httpMetrics *metrics.HTTPMetrics
	if registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(registry)
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.Auth.RateLimitWindow,
		cfg.Auth.LoginIPLimit,
		cfg.Auth.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.Auth.RateLimitWindow,
		cfg.Auth.RegisterIPLimit,
		cfg.Auth.RegisterEmailLimit,
	)

	deps := map[string]handlers.Pinger{}
	if dbP != nil {
		deps["db"] = dbP
	}
	if store != nil {
		deps["redis"] = store
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", handlers.Healthz(cfg, logg))
		r.Get("/ready", handlers.Readyz(cfg, deps, logg))
	})
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(svc.Catalog, logg))
		r.Get("/{id}", controllers.ProductsGet(svc.Catalog, logg))
	})

	secure := cfg.Auth.SecureCookie
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, store, logg)).Post("/login", controllers.AuthLogin(svc.Auth, secure, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, store, logg)).Post("/register", controllers.AuthRegister(svc.Register, svc.Auth, secure, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Post("/logout", controllers.AuthLogout(svc.Auth, secure, logg))
			r.Get("/me", controllers.AuthMe(svc.Users, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartList(svc.Cart, logg))
			r.Post("/", controllers.CartAdd(svc.Cart, logg))
			r.Put("/", controllers.CartSetQuantity(svc.Cart, logg))
			r.Delete("/", controllers.CartClear(svc.Cart, logg))
			r.Delete("/{productId}", controllers.CartRemove(svc.Cart, logg))
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", controllers.FavoritesList(svc.Favorites, logg))
			r.Post("/", controllers.FavoritesAdd(svc.Favorites, logg))
			r.Get("/{productId}", controllers.FavoritesCheck(svc.Favorites, logg))
			r.Delete("/{productId}", controllers.FavoritesRemove(svc.Favorites, logg))
		})

		r.With(middleware.Idempotency(store, checkoutReplayTTL, logg)).
			Post("/checkout", controllers.CheckoutPlaceOrder(svc.Checkout, logg))

		r.Route("/user", func(r chi.Router) {
			r.Get("/orders", controllers.UserOrders(svc.Orders, logg))
			r.Get("/profile", controllers.UserProfile(svc.Users, logg))
			r.Put("/profile", controllers.UserUpdateProfile(svc.Users, logg))
			r.Get("/address", controllers.UserAddress(svc.Users, logg))
			r.Put("/address", controllers.UserUpdateAddress(svc.Users, logg))
			r.Get("/stats", controllers.UserStats(svc.Users, logg))
			r.Post("/avatar", controllers.UserUploadAvatar(svc.Users, cfg.Avatar.MaxBytes, logg))
			r.Delete("/avatar", controllers.UserDeleteAvatar(svc.Users, logg))
			r.Get("/payment-methods", controllers.PaymentMethodsList(svc.PaymentMethods, logg))
			r.Post("/payment-methods", controllers.PaymentMethodsCreate(svc.PaymentMethods, logg))
			r.Delete("/payment-methods/{id}", controllers.PaymentMethodsDelete(svc.PaymentMethods, logg))
		})
	})

	return r
}
