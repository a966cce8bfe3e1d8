// Package app wires the storefront stores onto a storage backend.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/georgemunganga/shoestore/internal/config"
	"github.com/georgemunganga/shoestore/internal/modules/activity"
	"github.com/georgemunganga/shoestore/internal/modules/cart"
	"github.com/georgemunganga/shoestore/internal/modules/catalog"
	"github.com/georgemunganga/shoestore/internal/modules/media"
	"github.com/georgemunganga/shoestore/internal/modules/settings"
	"github.com/georgemunganga/shoestore/internal/modules/storage"
)

// App holds the loaded stores and the backend they persist to.
type App struct {
	Config   config.Config
	Logger   *zap.Logger
	KV       storage.KV
	Storage  *storage.Adapter
	Bus      *activity.Bus
	Settings *settings.Store
	Catalog  *catalog.Store
	Cart     *cart.Store
	Media    *media.Converter
}

// OpenKV opens the backend selected by cfg.StorageDriver.
func OpenKV(ctx context.Context, cfg config.Config) (storage.KV, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return storage.NewMemoryKV(), nil
	case config.DriverSQLite, "":
		return storage.OpenSQLite(ctx, cfg.SQLitePath)
	case config.DriverPostgres:
		return storage.OpenPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// Open connects to the configured backend and loads every store.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	kv, err := OpenKV(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.StorageDriver, err)
	}
	return New(ctx, kv, cfg, logger), nil
}

// New builds the stores over kv and loads their documents. The App owns kv
// from here on.
func New(ctx context.Context, kv storage.KV, cfg config.Config, logger *zap.Logger, cartOpts ...cart.Option) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	bus := activity.NewBus()
	adapter := storage.NewAdapter(kv, cfg.Namespace, logger.Named("storage"))

	products := catalog.NewStore(catalog.NewKVRepository(adapter), bus, logger.Named("catalog"))
	a := &App{
		Config:   cfg,
		Logger:   logger,
		KV:       kv,
		Storage:  adapter,
		Bus:      bus,
		Settings: settings.NewStore(settings.NewKVRepository(adapter), bus, logger.Named("settings")),
		Catalog:  products,
		Cart:     cart.NewStore(cart.NewKVRepository(adapter), products, bus, logger.Named("cart"), cartOpts...),
		Media: media.NewConverter(logger.Named("media"),
			media.WithMaxBytes(cfg.UploadMaxBytes),
			media.WithAllowedPrefixes("image/")),
	}
	a.load(ctx)
	return a
}

func (a *App) load(ctx context.Context) {
	a.Settings.Load(ctx)
	products := a.Catalog.Load(ctx)
	lines := a.Cart.Load(ctx)
	a.Logger.Info("storefront loaded",
		zap.Int("products", len(products)),
		zap.Int("cart_lines", len(lines)))
}

// Reset removes every stored document and reloads the stores, which puts
// back the sample catalog, the default settings and an empty cart. Pending
// uploads are dropped.
func (a *App) Reset(ctx context.Context) error {
	var errs []error
	for _, key := range storage.Keys() {
		if err := a.Storage.Remove(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		a.Logger.Error("reset failed", zap.Error(err))
		return err
	}
	a.Media.Cancel(media.TargetSettingsLogo)
	a.Media.Cancel(media.TargetProductImage)
	a.load(ctx)

	for _, topic := range []string{
		activity.TopicSettingsChanged,
		activity.TopicCatalogChanged,
		activity.TopicCartChanged,
	} {
		if err := a.Bus.Emit(ctx, activity.Event{Topic: topic, Verb: "reset"}); err != nil {
			a.Logger.Warn("reset hook failed", zap.String("topic", topic), zap.Error(err))
		}
	}
	return nil
}

// RegisterRoutes mounts every HTTP handler on r.
func (a *App) RegisterRoutes(r *chi.Mux) {
	settings.NewHandler(a.Settings).RegisterRoutes(r)
	catalog.NewHandler(a.Catalog).RegisterRoutes(r)
	cart.NewHandler(a.Cart).RegisterRoutes(r)
	media.NewHandler(a.Media).RegisterRoutes(r)
	activity.NewHandler(a.Bus, a.Logger.Named("events")).RegisterRoutes(r)
	NewHandler(a).RegisterRoutes(r)
}

// Close waits for pending media conversions and closes the backend.
func (a *App) Close() error {
	a.Media.Wait()
	return a.KV.Close()
}
