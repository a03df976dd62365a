package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"kindergarten/internal/config"
	"kindergarten/internal/database"
	"kindergarten/internal/handlers"
	"kindergarten/internal/listing"
	"kindergarten/internal/logging"
	"kindergarten/internal/models"
	"kindergarten/internal/repository"
	"kindergarten/internal/security"
	"kindergarten/internal/service"
	"kindergarten/internal/session"
	"kindergarten/internal/validation"
)

const (
	loginAttempts      = 10
	loginWindow        = time.Minute
	sessionCleanupTick = time.Hour
	shutdownTimeout    = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("database connection established", zap.String("type", cfg.DatabaseType))

	applied, err := db.RunMigrations(ctx, cfg.MigrationsPath)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("migrations completed", zap.Strings("applied", applied))

	renderer, err := handlers.LoadTemplates(cfg.TemplatesPath)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	cache, closeCache, err := newListCache(cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	store, err := newSessionStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	groupTypeRepo := repository.NewGroupTypeRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	parentRepo := repository.NewParentRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	childRepo := repository.NewChildRepository(db)

	authService := service.NewAuthService(userRepo, security.NewTokenIssuer(cfg.TokenSecret), cfg.SessionDuration)
	authService.DropStateWith(store)
	if ok, err := authService.HasUsers(ctx); err != nil {
		return err
	} else if !ok {
		logger.Warn("no accounts exist yet, create one with: kgctl createuser --role admin")
	}

	limiter := security.NewRateLimiter(loginAttempts, loginWindow)
	middleware := handlers.NewMiddleware(authService, security.NewCSRFGenerator(cfg.CSRFSecret), limiter, logger)
	layout := &handlers.Layout{Renderer: renderer, Middleware: middleware, Menu: handlers.Menu, Logger: logger}
	filters := listing.NewFilterStore(store)
	roles := []string{models.RoleAdmin, models.RoleUser}

	mux := http.NewServeMux()

	handlers.NewResource(handlers.ChildEntity(parentRepo, groupRepo),
		service.NewEntityService[models.Child](listing.ChildKind, childRepo, validation.Child, cache, cfg.PageSize, logger).
			CheckWith(service.ChildReferences(parentRepo.Exists, groupRepo.Exists)),
		filters, layout).Register(mux, roles...)
	handlers.NewResource(handlers.ParentEntity(),
		service.NewEntityService[models.Parent](listing.ParentKind, parentRepo, validation.Parent, cache, cfg.PageSize, logger),
		filters, layout).Register(mux, roles...)
	handlers.NewResource(handlers.GroupEntity(staffRepo, groupTypeRepo),
		service.NewEntityService[models.Group](listing.GroupKind, groupRepo, validation.Group, cache, cfg.PageSize, logger).
			CheckWith(service.GroupReferences(staffRepo.Exists, groupTypeRepo.Exists)),
		filters, layout).Register(mux, roles...)
	handlers.NewResource(handlers.GroupTypeEntity(),
		service.NewEntityService[models.GroupType](listing.GroupTypeKind, groupTypeRepo, validation.GroupType, cache, cfg.PageSize, logger),
		filters, layout).Register(mux, roles...)
	handlers.NewResource(handlers.StaffEntity(positionRepo),
		service.NewEntityService[models.Staff](listing.StaffKind, staffRepo, validation.Staff, cache, cfg.PageSize, logger).
			CheckWith(service.StaffReferences(positionRepo.Exists)),
		filters, layout).Register(mux, roles...)
	handlers.NewResource(handlers.PositionEntity(),
		service.NewEntityService[models.Position](listing.PositionKind, positionRepo, validation.Position, cache, cfg.PageSize, logger),
		filters, layout).Register(mux, roles...)
	handlers.NewResource(handlers.UserEntity(),
		service.NewEntityService[models.User](listing.UserKind, userRepo, validation.User, cache, cfg.PageSize, logger).
			CheckWith(service.EmailAvailable(userRepo.GetUserByEmail)),
		filters, layout).Register(mux, models.RoleAdmin)

	authHandler := handlers.NewAuthHandler(authService, renderer, handlers.Menu[0].Path, logger)
	healthHandler := handlers.NewHealthHandler(db, logger)

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticFilesPath))))
	mux.HandleFunc("GET /{$}", authHandler.Home)
	mux.HandleFunc("GET /login", authHandler.ShowLogin)
	mux.HandleFunc("POST /login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /logout", authHandler.Logout)
	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handlers.Logging(logger, mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go cleanupExpiredSessions(ctx, authService, logger)
	go limiter.Cleanup(ctx, loginWindow)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// newListCache picks the list cache backend; the returned func releases its connection
func newListCache(cfg *config.Config) (listing.Cache, func() error, error) {
	if cfg.CacheBackend == "redis" {
		c, err := listing.NewRedisCache(listing.RedisConfig{URL: cfg.RedisURL})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create redis list cache: %w", err)
		}
		return listing.Instrument(c), c.Close, nil
	}
	return listing.Instrument(listing.NewMemoryCache()), func() error { return nil }, nil
}

func newSessionStore(cfg *config.Config) (session.Store, error) {
	if cfg.SessionBackend == "redis" {
		s, err := session.NewRedisStore(session.RedisConfig{URL: cfg.RedisURL, TTL: cfg.SessionDuration})
		if err != nil {
			return nil, fmt.Errorf("failed to create redis session store: %w", err)
		}
		return s, nil
	}
	return session.NewMemoryStore(), nil
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(ctx context.Context, authService *service.AuthService, logger *zap.Logger) {
	ticker := time.NewTicker(sessionCleanupTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := authService.CleanupExpiredSessions(ctx)
			if err != nil {
				logger.Error("failed to clean up expired sessions", zap.Int64("removed", n), zap.Error(err))
				continue
			}
			logger.Info("expired sessions cleaned up", zap.Int64("removed", n))
		}
	}
}
