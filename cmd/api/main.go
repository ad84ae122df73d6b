package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"arsip/docs"
	"arsip/internal/cache"
	"arsip/internal/config"
	"arsip/internal/database"
	"arsip/internal/database/migration"
	handlers "arsip/internal/http/handler"
	"arsip/internal/http/middleware"
	"arsip/internal/logger"
	"arsip/internal/otel"
	"arsip/internal/repository/postgres"
	"arsip/internal/service"
	"arsip/internal/storage"
)

// @title Arsip Digital API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()

	log, err := logger.New(cfg.LogLevel, loc)
	if err != nil {
		panic(err)
	}

	if err := run(cfg, loc, log); err != nil {
		log.Error("server_exited", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

// run wires every dependency and serves until SIGINT or SIGTERM. Resources
// opened here are closed by its defers on every return path.
func run(cfg *config.AppConfig, loc *time.Location, log *zap.Logger) error {
	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log, "arsip")
	if err != nil {
		return fmt.Errorf("initialize tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error("tracing_shutdown_failed", zap.Error(err))
		}
	}()

	db, err := database.NewPostgres(ctx, cfg.Database, cfg.Timezone)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize object storage: %w", err)
	}

	var kv cache.Cache = cache.Noop{}
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			log.Warn("redis_unavailable", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			defer rc.Close()
			kv = rc
		}
	}

	// Initialize repositories and services
	users := postgres.NewUserPostgres(db)
	deps := service.Deps{
		Tx:             database.NewTxManager(db),
		Documents:      postgres.NewDocumentPostgres(db),
		SPD:            postgres.NewSPDPostgres(db),
		Categories:     postgres.NewCategoryPostgres(db),
		Employees:      postgres.NewEmployeePostgres(db),
		Activities:     postgres.NewActivityPostgres(db),
		Users:          users,
		Stats:          postgres.NewStatsPostgres(db),
		Store:          store,
		Cache:          kv,
		Log:            log,
		Location:       loc,
		MaxUploadBytes: cfg.Upload.MaxBytes,
		CacheTTL:       cfg.Redis.DefaultTTL,
	}

	authSvc := service.NewAuthService(users, kv, log, service.AuthOptions{
		Secret:      []byte(cfg.Auth.JWTSecret),
		Issuer:      cfg.Auth.Issuer,
		TokenTTL:    cfg.Auth.TokenTTL,
		BcryptCost:  cfg.Auth.BcryptCost,
		MaxAttempts: cfg.Auth.LoginMaxAttempts,
		Window:      cfg.Auth.LoginWindow,
	})
	if cfg.Auth.AdminUsername != "" {
		if err := authSvc.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
			return fmt.Errorf("create admin user: %w", err)
		}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(log),
		// Leave headroom so oversized PDFs reach the upload validation.
		BodyLimit: int(cfg.Upload.MaxBytes) + 1<<20,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.ClientInfo())
	app.Use(middleware.SecurityHeaders())
	app.Use(middleware.Logger(log))
	app.Use(metrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(app, db, handlers.Services{
		Auth:        authSvc,
		Documents:   service.NewDocumentService(deps),
		SPD:         service.NewSPDService(deps),
		Employees:   service.NewEmployeeService(deps.Employees, log),
		Categories:  service.NewCategoryService(deps),
		Dashboard:   service.NewDashboardService(deps),
		Maintenance: service.NewMaintenanceService(deps),
		Now:         func() time.Time { return time.Now().In(loc) },
	})

	go func() {
		<-ctx.Done()
		log.Info("server_shutdown", zap.String("reason", "signal"))
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("server_shutdown_failed", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	log.Info("server_starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := app.Listen(addr); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func newStorage(ctx context.Context, cfg *config.AppConfig) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case "local":
		return storage.NewLocal(cfg.Storage.MediaRoot)
	case "minio", "":
		return storage.NewMinIO(ctx, cfg.MinIO)
	}
	return nil, errors.New("unknown STORAGE_DRIVER " + cfg.Storage.Driver)
}
