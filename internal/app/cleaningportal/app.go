package cleaningportal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mkotelnikova/cleaning-portal/internal/cache"
	"github.com/mkotelnikova/cleaning-portal/internal/config"
	jwtlib "github.com/mkotelnikova/cleaning-portal/internal/lib/jwt"
	"github.com/mkotelnikova/cleaning-portal/internal/metrics"
	"github.com/mkotelnikova/cleaning-portal/internal/migrations"
	authservice "github.com/mkotelnikova/cleaning-portal/internal/services/auth"
	orderservice "github.com/mkotelnikova/cleaning-portal/internal/services/order"
	"github.com/mkotelnikova/cleaning-portal/internal/storage"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwtlib.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	appMetrics := metrics.New(prometheus.DefaultRegisterer)

	authService := authservice.New(db, jwtMaker, appMetrics, logger)
	orderService := orderservice.New(db, cacheRedis, appMetrics, logger)

	if err = authService.EnsureAdmin(ctx,
		cfg.AdminLogin, cfg.AdminPassword,
		cfg.AdminFullName, cfg.AdminPhone, cfg.AdminEmail); err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, authService, orderService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

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

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}

	// Соединения закрываются на обоих путях выхода, не только при сигнале.
	if cerr := a.cache.Close(); cerr != nil {
		a.logger.Error("failed to close redis connection", slog.Any("err", cerr))
	}
	if dberr := a.db.Close(); dberr != nil {
		a.logger.Error("failed to close database connection", slog.Any("err", dberr))
	}
	return err
}
