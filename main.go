package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/msomdec/storefront/internal/config"
	"github.com/msomdec/storefront/internal/domain"
	"github.com/msomdec/storefront/internal/handler"
	"github.com/msomdec/storefront/internal/repository/postgres"
	"github.com/msomdec/storefront/internal/repository/sqlite"
	"github.com/msomdec/storefront/internal/service"
	"github.com/msomdec/storefront/internal/storage/s3store"
	"github.com/msomdec/storefront/internal/telemetry"
)

const serviceName = "storefront"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	logOpts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	if cfg.PasswordMode == config.PasswordModePlain {
		slog.Warn("PASSWORD_MODE=plain stores passwords verbatim; set PASSWORD_MODE=bcrypt for new deployments")
	}

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Tracing, cfg.OTLPEndpoint, serviceName)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		slog.Error("failed to open database", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied", "driver", cfg.StoreDriver)

	files, err := openFileStore(ctx, cfg, db)
	if err != nil {
		slog.Error("failed to open file store", "backend", cfg.FileStore, "error", err)
		os.Exit(1)
	}

	limiter, closeLimiter, err := newLimiter(cfg)
	if err != nil {
		slog.Error("failed to set up rate limiter", "backend", cfg.RateLimitBackend, "error", err)
		os.Exit(1)
	}
	defer closeLimiter()

	passwords, err := service.NewPasswordPolicy(cfg.PasswordMode, cfg.BcryptCost)
	if err != nil {
		slog.Error("invalid password mode", "error", err)
		os.Exit(1)
	}

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Services{
		Auth:    service.NewAuthService(db.Users(), tokens, passwords),
		Tokens:  tokens,
		Carts:   service.NewCartService(db.Users()),
		Catalog: service.NewCatalogService(db.Products(), files, cfg.PublicURL),
		Images:  service.NewImageService(files, cfg.PublicURL),
		Limiter: limiter,
	})

	var h http.Handler = mux
	h = handler.SecurityHeaders(h)
	h = handler.CORS(cfg.CORSOrigin, h)
	h = handler.RequestLogger(h)
	h = telemetry.Middleware(serviceName, h)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "public_url", cfg.PublicURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCtx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("tracing shutdown error", "error", err)
	}
	slog.Info("server stopped")
}

func openDatabase(ctx context.Context, cfg *config.Config) (domain.Database, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		return postgres.New(ctx, cfg.DatabaseURL)
	case config.StoreSQLite:
		return sqlite.New(cfg.DatabasePath)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openFileStore(ctx context.Context, cfg *config.Config, db domain.Database) (domain.FileStore, error) {
	if cfg.FileStore != config.FileStoreS3 {
		return db.FileStore(), nil
	}
	return s3store.New(ctx, s3store.Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
}

// newLimiter returns the limiter for /signup and /login, or nil when rate
// limiting is off, together with a func releasing its resources.
func newLimiter(cfg *config.Config) (service.Limiter, func(), error) {
	switch cfg.RateLimitBackend {
	case config.RateLimitMemory:
		tb := service.NewTokenBucket(cfg.RateLimitRate, float64(cfg.RateLimitBurst))
		return tb, tb.Stop, nil
	case config.RateLimitRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		// Fixed window sized so a full burst refills at the configured rate.
		window := time.Hour
		if cfg.RateLimitRate > 0 {
			window = time.Duration(float64(cfg.RateLimitBurst) / cfg.RateLimitRate * float64(time.Second))
		}
		return service.NewRedisLimiter(client, cfg.RateLimitBurst, window), func() { client.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}
