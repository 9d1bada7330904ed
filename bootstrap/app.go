package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"cvedex/api"
	"cvedex/config"
	"cvedex/core"
	"cvedex/service"
	"cvedex/storage"
	"cvedex/util/goroutine"

	"go.uber.org/zap"
)

// shutdownTimeout bounds the graceful HTTP drain
const shutdownTimeout = 15 * time.Second

// App represents the cvedex service with all its components.
type App struct {
	// Configuration
	Config *config.Config
	Logger *zap.Logger
	Sugar  *zap.SugaredLogger

	// Storage
	Store storage.Store
	Cache *core.RedisCache

	// Services
	Services  api.Services
	APIServer *api.API

	// Lifecycle
	serviceWg    *sync.WaitGroup
	shutdownOnce sync.Once
}

// NewApp loads configuration and opens storage.
func NewApp(ctx context.Context) (*App, error) {
	_, bootSugar, err := InitLogger("info", "console")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := InitConfig(bootSugar)
	if err != nil {
		return nil, err
	}

	logger, _, err := InitLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return NewAppWithConfig(ctx, cfg, logger)
}

// NewAppWithConfig builds the application from an already loaded config.
func NewAppWithConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	app := &App{
		Config:    cfg,
		Logger:    logger,
		Sugar:     logger.Sugar(),
		serviceWg: &sync.WaitGroup{},
	}

	app.Sugar.Info("cvedex starting...")

	store, err := InitStorage(ctx, cfg, app.Sugar)
	if err != nil {
		return nil, err
	}
	app.Store = store
	app.Cache = InitRedisCache(ctx, cfg, app.Sugar)
	app.Services = NewServices(store, app.Sugar)

	return app, nil
}

// NewServices wires the read services over a store.
func NewServices(store storage.Store, sugar *zap.SugaredLogger) api.Services {
	return api.Services{
		Vulnerabilities: service.NewVulnerabilityService(store, sugar),
		Vendors:         service.NewVendorService(store, sugar),
		Products:        service.NewProductService(store, sugar),
		Search:          service.NewSearchService(store, sugar),
		Health:          store,
	}
}

// Start starts the API server in the background.
func (a *App) Start(ctx context.Context) error {
	if a.Store == nil {
		return errors.New("storage not initialized")
	}

	a.APIServer = api.NewAPI(a.Services, a.Cache, a.Config, a.Sugar)

	a.serviceWg.Add(1)
	go func() {
		defer a.serviceWg.Done()
		defer goroutine.Recover("api_server", a.Sugar)
		a.Sugar.Infof("API server started on :%d", a.Config.API.Port)

		if err := a.APIServer.Start(a.Config.API.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Sugar.Errorf("API server error: %v", err)
		}
	}()

	return nil
}

// WaitForShutdown blocks until a shutdown signal is received.
func (a *App) WaitForShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}

// Shutdown gracefully shuts down all components. It is safe to call more
// than once.
func (a *App) Shutdown() {
	a.shutdownOnce.Do(a.shutdown)
}

func (a *App) shutdown() {
	a.Sugar.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.APIServer != nil {
		a.Sugar.Info("Stopping API server...")
		if err := a.APIServer.Stop(ctx); err != nil {
			a.Sugar.Errorf("API server shutdown error: %v", err)
		}
	}
	a.serviceWg.Wait()

	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Sugar.Warnf("Failed to close Redis: %v", err)
		}
	}

	if a.Store != nil {
		if err := a.Store.Close(ctx); err != nil {
			a.Sugar.Errorf("Failed to close storage: %v", err)
		}
	}

	a.Sugar.Info("Shutdown complete")
	_ = a.Logger.Sync()
}
