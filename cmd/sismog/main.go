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

	"github.com/SscSPs/sismog_console/internal/adapters/blob/s3"
	"github.com/SscSPs/sismog_console/internal/adapters/database/pgsql"
	"github.com/SscSPs/sismog_console/internal/adapters/database/sqlite"
	"github.com/SscSPs/sismog_console/internal/adapters/rest"
	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
	"github.com/SscSPs/sismog_console/internal/core/services"
	"github.com/SscSPs/sismog_console/internal/handlers"
	"github.com/SscSPs/sismog_console/internal/middleware"
	"github.com/SscSPs/sismog_console/internal/platform/config"
	"github.com/SscSPs/sismog_console/internal/platform/metrics"
	"github.com/SscSPs/sismog_console/internal/platform/ratelimit"
	"github.com/SscSPs/sismog_console/internal/utils"
	"github.com/SscSPs/sismog_console/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// sweepInterval is how often idle workspaces are looked for.
const sweepInterval = time.Minute

// @title SISMOG Console API
// @version 1.0
// @description Backend of the SISMOG administrative console: companies, employees, penalties and account settings.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	signer, err := newAttachmentSigner(ctx, cfg, logger)
	if err != nil {
		return err
	}

	repos, closeRepos, err := newRepositories(ctx, cfg, signer, logger)
	if err != nil {
		return err
	}
	defer closeRepos()

	collector := metrics.NewCollector()
	container := services.NewServiceContainer(cfg, repos, collector)

	rateLimiter, closeLimiter, err := ratelimit.New(ctx, cfg.RateLimit, cfg.RedisURL, logger)
	if err != nil {
		return fmt.Errorf("failed to create rate limiter: %w", err)
	}
	defer func() {
		if err := closeLimiter(); err != nil {
			logger.Warn("Failed to close rate limiter store", slog.String("error", err.Error()))
		}
	}()

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.MetricsMiddleware(collector),
		middleware.PosthogMiddleware(posthogClient),
	)
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	handlers.RegisterRoutes(r, cfg, container, handlers.RouteDeps{
		Limiter: rateLimiter,
		Metrics: collector,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("backend", cfg.DataBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to run: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case now := <-ticker.C:
				if n := container.Workspaces.Sweep(gctx, now); n > 0 {
					logger.Info("Dropped idle workspaces", slog.Int("count", n))
				}
			}
		}
	})
	return g.Wait()
}

// newAttachmentSigner returns nil when no bucket is configured; attachment
// links then report not found.
func newAttachmentSigner(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.AttachmentSigner, error) {
	if cfg.BlobS3Bucket == "" {
		return nil, nil
	}
	signer, err := s3.New(ctx, s3.Config{
		Region:          cfg.BlobS3Region,
		Bucket:          cfg.BlobS3Bucket,
		Endpoint:        cfg.BlobS3Endpoint,
		AccessKeyID:     cfg.BlobS3AccessKey,
		SecretAccessKey: cfg.BlobS3SecretKey,
		PathStyle:       cfg.BlobS3UsePathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment signer: %w", err)
	}
	logger.Info("Attachment signing enabled", slog.String("bucket", cfg.BlobS3Bucket))
	return signer, nil
}

// accountSeeder is implemented by the self-hosted identity adapters.
type accountSeeder interface {
	EnsureAccount(ctx context.Context, email, password string) (bool, error)
}

// newRepositories builds the adapters for cfg.DataBackend. The returned
// func releases their connections.
func newRepositories(ctx context.Context, cfg *config.Config, signer portsrepo.AttachmentSigner, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.DataBackend {
	case config.BackendPgSQL:
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		closeFn := func() { database.ClosePgxPool(pool, logger) }
		seeder := pgsql.NewIdentityRepository(pool, cfg.JWTSecret, cfg.JWTExpiryDuration)
		if err := seedAccount(ctx, cfg, seeder, logger); err != nil {
			closeFn()
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return pgsql.NewRepositoryProvider(pool, cfg.JWTSecret, cfg.JWTExpiryDuration, signer), closeFn, nil

	case config.BackendSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		closeFn := func() {
			if err := db.Close(); err != nil {
				logger.Warn("Failed to close sqlite database", slog.String("error", err.Error()))
			}
		}
		store, err := sqlite.NewStore(ctx, db)
		if err != nil {
			closeFn()
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to prepare sqlite schema: %w", err)
		}
		if err := seedAccount(ctx, cfg, sqlite.NewIdentityStore(store, cfg.JWTSecret, cfg.JWTExpiryDuration), logger); err != nil {
			closeFn()
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return sqlite.NewRepositoryProvider(store, cfg.JWTSecret, cfg.JWTExpiryDuration, signer), closeFn, nil

	default:
		client := rest.NewClient(cfg.DataServiceURL, cfg.DataServiceKey, nil)
		logger.Info("Using hosted data service", slog.String("url", cfg.DataServiceURL))
		return rest.NewRepositoryProvider(client, signer), func() {}, nil
	}
}

func seedAccount(ctx context.Context, cfg *config.Config, seeder accountSeeder, logger *slog.Logger) error {
	if cfg.BootstrapEmail == "" {
		return nil
	}
	created, err := seeder.EnsureAccount(ctx, cfg.BootstrapEmail, cfg.BootstrapPassword)
	if err != nil {
		return fmt.Errorf("failed to create bootstrap account: %w", err)
	}
	if created {
		logger.Info("Bootstrap account created", slog.String("email", cfg.BootstrapEmail))
	}
	return nil
}
