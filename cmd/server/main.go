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

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/AarushM142/Todo-list-with-Authentication/internal/app"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/auth"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/config"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/metrics"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/middleware"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/service"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/session"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/storage"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/storage/rest"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/storage/sqlstore"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/tasks"
	"github.com/AarushM142/Todo-list-with-Authentication/internal/web"
	"github.com/AarushM142/Todo-list-with-Authentication/pkg/api/apiconnect"
	"github.com/AarushM142/Todo-list-with-Authentication/pkg/logging"
)

// backend is the task store and identity provider selected by config.
type backend struct {
	store    storage.TaskStore
	provider auth.Provider
	health   func(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logging is not configured yet.
		logging.Setup().Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.SetupWith(os.Stderr, logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	ctx := context.Background()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize backend", "backend", cfg.Backend, "error", err)
		os.Exit(1)
	}
	defer b.store.Close()
	slog.Info("Backend initialized", "backend", cfg.Backend)

	sessions, closeSessions, err := openSessions(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize session store", "store", cfg.SessionStore, "error", err)
		os.Exit(1)
	}
	defer closeSessions()

	m := metrics.New()
	repo := tasks.NewRepository(metrics.InstrumentTaskStore(b.store, m))
	gateway := auth.NewGateway(b.provider, logger)

	ui, err := web.New(web.Config{
		Loop:         app.NewLoop(app.NewDispatcher(repo, gateway, m, logger), sessions),
		CookieSecret: []byte(cfg.SessionSecret),
		SecureCookie: cfg.SecureCookies,
		CookieMaxAge: cfg.SessionTTL,
		Metrics:      m.Handler(),
		Health:       b.health,
		Logger:       logger,
	})
	if err != nil {
		slog.Error("Failed to initialize UI", "error", err)
		os.Exit(1)
	}
	router := ui.Routes()

	// Register Connect services
	authPath, authHandler := apiconnect.NewAuthServiceHandler(
		service.NewAuthService(gateway, logger),
		connect.WithInterceptors(middleware.OptionalAuth(gateway), middleware.LoggingInterceptor(m)),
	)
	router.Mount(authPath, middleware.CORS(authHandler))

	todoPath, todoHandler := apiconnect.NewTodoServiceHandler(
		service.NewTodoService(repo, logger),
		connect.WithInterceptors(middleware.RequireAuth(gateway), middleware.LoggingInterceptor(m)),
	)
	router.Mount(todoPath, middleware.CORS(todoHandler))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if cfg.Backend == config.BackendRemote {
		store, err := rest.New(rest.Config{
			BaseURL: cfg.StoreURL,
			APIKey:  cfg.StoreKey,
			Table:   cfg.StoreTable,
			Timeout: cfg.StoreTimeout,
		})
		if err != nil {
			return nil, err
		}
		provider, err := auth.NewGoTrueProvider(auth.GoTrueConfig{
			BaseURL: cfg.StoreURL,
			APIKey:  cfg.StoreKey,
			Timeout: cfg.StoreTimeout,
		})
		if err != nil {
			return nil, err
		}
		return &backend{store: store, provider: provider}, nil
	}

	dialect, err := sqlstore.ParseDialect(cfg.Backend)
	if err != nil {
		return nil, err
	}
	dsn := cfg.DatabaseDSN
	if dialect == sqlstore.SQLite {
		dsn = cfg.DBPath
	}
	store, err := sqlstore.Open(ctx, sqlstore.Config{Dialect: dialect, DSN: dsn})
	if err != nil {
		return nil, err
	}
	provider := auth.NewPasswordProvider(store, auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL))
	return &backend{store: store, provider: provider, health: store.Ping}, nil
}

func openSessions(ctx context.Context, cfg *config.Config) (session.Registry, func(), error) {
	if cfg.SessionStore != config.SessionStoreRedis {
		return session.NewMemoryRegistry(cfg.SessionTTL), func() {}, nil
	}

	reg := session.NewRedisRegistry(session.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.SessionTTL,
	})
	if err := reg.Ping(ctx); err != nil {
		reg.Close()
		return nil, nil, err
	}
	slog.Info("Session store initialized", "store", "redis", "addr", cfg.RedisAddr)
	return reg, func() { reg.Close() }, nil
}
