// Command shopper is a terminal storefront client. It keeps the guest cart
// and favorites on disk, and syncs them with the backend once signed in.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akvaproffi/storefront/internal/catalog"
	"github.com/akvaproffi/storefront/internal/checkout"
	"github.com/akvaproffi/storefront/internal/collection"
	"github.com/akvaproffi/storefront/internal/imagecache"
	"github.com/akvaproffi/storefront/internal/localstore"
	"github.com/akvaproffi/storefront/internal/remote"
	"github.com/akvaproffi/storefront/internal/synchronizer"
	"github.com/akvaproffi/storefront/pkg/config"
	"github.com/akvaproffi/storefront/pkg/logger"
	"github.com/akvaproffi/storefront/pkg/redis"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.Sync.APIBaseURL, "api", cfg.Sync.APIBaseURL, "storefront API base URL")
	flag.StringVar(&cfg.Sync.StateDir, "state", cfg.Sync.StateDir, "directory for the guest cart and favorites")
	flag.StringVar(&cfg.Sync.GuestRedisURL, "guest-redis", cfg.Sync.GuestRedisURL, "keep the guest collections in this redis instead of on disk")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level written to stderr")
	flag.Parse()

	logg := logger.New(logger.Options{
		ServiceName: "shopper",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Output:      os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sh, err := newShell(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to start shopper", err)
		os.Exit(1)
	}
	defer sh.close()

	fmt.Fprintln(sh.out, "storefront shopper; type help for commands")
	if err := sh.run(ctx, os.Stdin); err != nil {
		logg.Error(ctx, "shopper stopped", err)
		os.Exit(1)
	}
}

func newShell(ctx context.Context, cfg *config.ClientConfig, logg *logger.Logger) (*shell, error) {
	files, err := localstore.NewFileStore(cfg.Sync.StateDir)
	if err != nil {
		return nil, err
	}
	guests, closeGuests, err := guestBackend(ctx, cfg.Sync, files, logg)
	if err != nil {
		return nil, err
	}

	session := &remote.Session{}
	client, err := remote.New(remote.Options{
		BaseURL: cfg.Sync.APIBaseURL,
		Timeout: cfg.Sync.RequestTimeout,
		Tokens:  session,
		Logger:  logg,
	})
	if err != nil {
		return nil, err
	}

	cartSync, err := synchronizer.New(synchronizer.Options[collection.LineItem]{
		Name:            "cart",
		Local:           localstore.New[collection.LineItem](guests, localstore.CartKey, logg),
		Remote:          synchronizer.NewCartRemote(client),
		Reducer:         collection.CartReducer{},
		InFlightTimeout: cfg.Sync.InFlightTimeout,
		Logger:          logg,
	})
	if err != nil {
		return nil, err
	}
	favSync, err := synchronizer.New(synchronizer.Options[collection.FavoriteRef]{
		Name:            "favorites",
		Local:           localstore.New[collection.FavoriteRef](guests, localstore.FavoritesKey, logg),
		Remote:          synchronizer.NewFavoritesRemote(client),
		Reducer:         collection.FavoritesReducer{},
		InFlightTimeout: cfg.Sync.InFlightTimeout,
		Logger:          logg,
	})
	if err != nil {
		return nil, err
	}

	checkoutClient, err := checkout.NewClient(cartSync, client, logg)
	if err != nil {
		return nil, err
	}

	return &shell{
		catalog:   catalog.Default(),
		client:    client,
		session:   session,
		cart:      cartSync,
		favorites: favSync,
		checkout:  checkoutClient,
		avatars: imagecache.New(imagecache.Options{
			Capacity: cfg.Sync.ImageCacheCapacity,
			TTL:      cfg.Sync.ImageCacheTTL,
		}),
		out:        os.Stdout,
		closeStore: closeGuests,
	}, nil
}

// guestBackend returns the file store unless a guest redis is configured.
// The redis keys are scoped by a guest id generated once and kept on disk.
func guestBackend(ctx context.Context, cfg config.SyncConfig, files *localstore.FileStore, logg *logger.Logger) (localstore.Backend, func() error, error) {
	if cfg.GuestRedisURL == "" {
		return files, func() error { return nil }, nil
	}
	client, err := redis.New(ctx, config.RedisConfig{
		URL:         cfg.GuestRedisURL,
		PoolSize:    2,
		DialTimeout: cfg.RequestTimeout,
	}, logg)
	if err != nil {
		return nil, nil, err
	}
	guestID, err := localstore.GuestID(ctx, files)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	store, err := localstore.NewRedisStore(client, guestID, cfg.GuestTTL)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return store, client.Close, nil
}
