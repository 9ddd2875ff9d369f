package optimizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/subscription-optimizer/internal/cache"
	"github.com/magabrotheeeer/subscription-optimizer/internal/config"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/clock"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-optimizer/internal/migrations"
	optimizerservice "github.com/magabrotheeeer/subscription-optimizer/internal/services/optimizer"
	subservice "github.com/magabrotheeeer/subscription-optimizer/internal/services/subscription"
	"github.com/magabrotheeeer/subscription-optimizer/internal/storage/memory"
	"github.com/magabrotheeeer/subscription-optimizer/internal/storage/repository"
)

// Store — хранилище, которое нужно обоим сервисам.
type Store interface {
	subservice.SubscriptionRepository
	optimizerservice.Repository
}

// App — HTTP-приложение с его ресурсами.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	closers []func() error
}

// New создаёт приложение: хранилище, кэш, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{logger: logger}

	store, err := app.openStore(cfg)
	if err != nil {
		app.close()
		return nil, err
	}

	var appCache optimizerservice.Cache = cache.Noop{}
	if cfg.AddressRedis != "" {
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("cache not initialized: %w", err)
		}
		app.closers = append(app.closers, cacheRedis.Close)
		appCache = cacheRedis
	} else {
		logger.Warn("redis address is empty, cache disabled")
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger,
		subservice.NewSubscriptionService(store, appCache, clock.Real{}, logger),
		optimizerservice.NewService(store, appCache, cfg.CacheTTL, clock.Real{}, logger),
		jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL),
		Limits{RPS: cfg.RPS, Burst: cfg.Burst},
	)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

func (a *App) openStore(cfg *config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		a.logger.Warn("using in-memory storage, data will be lost on restart")
		return memory.New(), nil
	case config.StorageDriverPostgres:
		db, err := repository.New(cfg.StorageConnectionString)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("failed to close resource", slog.Any("err", err))
		}
	}
	a.closers = nil
}
