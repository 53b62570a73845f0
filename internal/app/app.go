package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/taskboard/internal/config"
	"github.com/yukikurage/taskboard/internal/database"
	"github.com/yukikurage/taskboard/internal/profile"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/services"
)

const shutdownTimeout = 5 * time.Second

// App owns the store, the services built on it and the HTTP router.
type App struct {
	cfg     *config.Config
	log     zerolog.Logger
	store   *repository.Store
	router  *gin.Engine
	closers []func() error
}

// New opens the configured store and wires the application around it.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a, err := NewWithStore(cfg, log, store)
	if err != nil {
		_ = closeStore()
		return nil, err
	}
	a.closers = append(a.closers, closeStore)

	return a, nil
}

// NewWithStore wires the application around an already opened store.
func NewWithStore(cfg *config.Config, log zerolog.Logger, store *repository.Store) (*App, error) {
	var drafter services.TaskDrafter
	if cfg.OpenAIAPIKey != "" {
		drafter = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		log.Info().Msg("OPENAI_API_KEY not set, AI task drafts disabled")
	}

	pictures := profile.NewSource(cfg.ProfilePicBaseURL, profile.WithHTTPClient(&http.Client{Timeout: cfg.ProfilePicTimeout}))
	authService := services.NewAuthService(store.Users, pictures)
	taskService := services.NewTaskService(store.Tasks, drafter)

	router, err := NewRouter(cfg, log, authService, taskService)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:    cfg,
		log:    log,
		store:  store,
		router: router,
	}, nil
}

// OpenStore connects the backend selected by STORE_BACKEND. The returned
// func releases it.
func OpenStore(ctx context.Context, cfg *config.Config) (*repository.Store, func() error, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendFirestore:
		client, err := database.ConnectFirestore(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewFirestoreStore(client), client.Close, nil
	case config.StoreBackendGorm, "":
		if err := database.Connect(cfg); err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(); err != nil {
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		sqlDB, err := database.GetDB().DB()
		if err != nil {
			return nil, nil, err
		}
		return repository.NewGormStore(database.GetDB()), sqlDB.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves HTTP until ctx is cancelled and then shuts the server down
// gracefully.
func (a *App) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              a.cfg.ListenAddr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", a.cfg.ListenAddr).Msg("setting up http server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("failed to listen and serve http: %w", err)
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}
	a.log.Info().Msg("shut down http server")
	return nil
}

// Close releases the store.
func (a *App) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		errs = append(errs, closeFn())
	}
	return errors.Join(errs...)
}
