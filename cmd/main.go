package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	_ "github.com/sbilibin2017/gw-user-store/docs"
	"github.com/sbilibin2017/gw-user-store/internal/config"
	"github.com/sbilibin2017/gw-user-store/internal/handlers"
	"github.com/sbilibin2017/gw-user-store/internal/logger"
	"github.com/sbilibin2017/gw-user-store/internal/middlewares"
	"github.com/sbilibin2017/gw-user-store/internal/repositories"
	"github.com/sbilibin2017/gw-user-store/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title gw-user-store API
// @version 1.0.0
// @description Username/password registration and login backed by a single user document
// @host localhost:2000
// @BasePath /
// @schemes http
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// userStore is what AuthService needs from a storage backend.
type userStore interface {
	services.UserLoader
	services.UserSaver
}

// openUserStore connects the configured storage backend.
// The returned close function releases its connections.
func openUserStore(ctx context.Context, cfg *config.Config) (userStore, func(), error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		logger.Log.Warn("Using in-memory user store, users are lost on restart")
		return repositories.NewMemoryUserRepository(), func() {}, nil

	case config.StoragePostgres:
		logger.Log.Infow("Connecting to PostgreSQL", "host", cfg.Postgres.Host, "port", cfg.Postgres.Port, "db", cfg.Postgres.DB)
		db, err := sqlx.ConnectContext(ctx, "pgx", cfg.Postgres.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("postgres connection: %w", err)
		}
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)

		repo := repositories.NewPostgresUserRepository(db, cfg.Postgres.Document)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("postgres schema: %w", err)
		}
		return repo, func() { db.Close() }, nil

	case config.StorageRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("redis connection: %w", err)
		}
		return repositories.NewRedisUserRepository(rdb, cfg.Redis.Key), func() { rdb.Close() }, nil

	default:
		logger.Log.Infow("Using file user store", "path", cfg.UsersFile)
		return repositories.NewFileUserRepository(cfg.UsersFile), func() {}, nil
	}
}

// newAuthService builds the service options from config.
func newAuthService(cfg *config.Config, store userStore, events services.KafkaWriter) *services.AuthService {
	opts := []services.Option{
		services.WithMinPasswordLength(cfg.PasswordMinLength),
	}
	if cfg.PasswordHashing == config.HashingBcrypt {
		opts = append(opts, services.WithPasswordHasher(services.NewBcryptHasher(0)))
	}
	if events != nil {
		opts = append(opts, services.WithEventWriter(events))
	}
	return services.NewAuthService(store, store, opts...)
}

// newRouter mounts the JSON endpoints, swagger and the static front end.
func newRouter(cfg *config.Config, authService *services.AuthService) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))
	r.Use(middlewares.CORSMiddleware())

	// Public routes
	r.Post("/register", handlers.NewRegisterHandler(authService))
	r.Post("/login", handlers.NewLoginHandler(authService))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Everything else is the web front end
	static := handlers.NewStaticHandler(cfg.StaticDir)
	r.Get("/register", static)
	r.Get("/login", static)
	r.NotFound(static)
	r.MethodNotAllowed(static)

	return r
}

// run initializes the logger, storage backend, optional Kafka writer, and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg *config.Config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	store, closeStore, err := openUserStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var events services.KafkaWriter
	if cfg.Kafka.Enabled() {
		writer := &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Kafka.Brokers...),
			Topic:                  cfg.Kafka.Topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		}
		defer writer.Close()
		events = writer
		logger.Log.Infow("Publishing registrations to Kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	if cfg.PasswordHashing == config.HashingPlaintext {
		logger.Log.Warn("Passwords are stored and compared in plaintext")
	}

	authService := newAuthService(cfg, store, events)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(cfg, authService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s, serving %s", cfg.Addr(), cfg.StaticDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
