package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/intake-service/internal/api/http"
	"github.com/spec-kit/intake-service/internal/api/http/handlers"
	"github.com/spec-kit/intake-service/internal/auth"
	"github.com/spec-kit/intake-service/internal/blob"
	"github.com/spec-kit/intake-service/internal/cache"
	"github.com/spec-kit/intake-service/internal/config"
	"github.com/spec-kit/intake-service/internal/domain"
	"github.com/spec-kit/intake-service/internal/events"
	"github.com/spec-kit/intake-service/internal/observability"
	"github.com/spec-kit/intake-service/internal/persistence"
	"github.com/spec-kit/intake-service/internal/service"
	"github.com/spec-kit/intake-service/internal/store"
	"github.com/spec-kit/intake-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := persistence.NewPool(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}

	var tabular store.TabularStore
	if pool != nil {
		defer pool.Close()
		pgStore := store.NewPostgresStore(pool)
		if cfg.Postgres.BootstrapSchema {
			if err := pgStore.EnsureSchema(ctx, domain.SheetHeaders()); err != nil {
				logger.Fatal("failed to bootstrap sheet schema", zap.Error(err))
			}
		}
		tabular = pgStore
	} else {
		tabular = store.NewMemoryStore(domain.SheetHeaders())
	}

	kv := cache.NewRedisCache(cfg.Redis, logger)
	defer kv.Close()

	blobs, err := blob.NewDiskBlobStore(cfg.Blob.RootDir, cfg.Blob.BaseURL)
	if err != nil {
		logger.Fatal("failed to init attachment storage", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	schema := service.NewSchemaCache(tabular, kv)
	lock := service.NewMutationLock(cfg.Lock.AcquireTimeout(), metrics)
	dispatcher := events.NewInMemoryDispatcher()

	ticketService := service.NewTicketService(service.TicketDependencies{
		Store:      tabular,
		Schema:     schema,
		Blobs:      blobs,
		Lock:       lock,
		Dispatcher: dispatcher,
		Logger:     logger,
		Now:        time.Now,
	})
	dashboardService := service.NewDashboardService(tabular, schema, time.Now)
	exportService := service.NewExportService(tabular, schema, time.Now)
	userService := service.NewUserService(tabular, schema, cfg.Auth.BcryptCost)
	teamService := service.NewTeamService(tabular)
	auditService := service.NewAuditService(tabular, logger, time.Now)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewMiddleware(tokens, userService)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, tabular, kv),
		Tickets:        handlers.NewTicketsHandler(ticketService, auditService),
		AdminTickets:   handlers.NewAdminTicketsHandler(ticketService, dashboardService, exportService, auditService),
		Users:          handlers.NewUsersHandler(userService, tokens, auditService, dispatcher),
		Teams:          handlers.NewTeamsHandler(teamService, auditService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
