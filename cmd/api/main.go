package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/itsm-console/internal/api/http"
	"github.com/spec-kit/itsm-console/internal/api/http/handlers"
	"github.com/spec-kit/itsm-console/internal/auth"
	"github.com/spec-kit/itsm-console/internal/config"
	"github.com/spec-kit/itsm-console/internal/domain"
	"github.com/spec-kit/itsm-console/internal/events"
	"github.com/spec-kit/itsm-console/internal/observability"
	"github.com/spec-kit/itsm-console/internal/persistence"
	"github.com/spec-kit/itsm-console/internal/repository"
	"github.com/spec-kit/itsm-console/internal/service"
	"github.com/spec-kit/itsm-console/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	incidentRepo := repository.NewTicketRepository(pool, domain.IncidentSpec)
	requestRepo := repository.NewTicketRepository(pool, domain.ServiceRequestSpec)
	notificationRepo := repository.NewNotificationRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	incidentService := service.NewTicketService(domain.IncidentSpec, service.TicketDependencies{
		TicketRepo:     incidentRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
		DeadlineOffset: cfg.Ticket.DeadlineOffset(),
	})
	requestService := service.NewTicketService(domain.ServiceRequestSpec, service.TicketDependencies{
		TicketRepo:     requestRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
		DeadlineOffset: cfg.Ticket.DeadlineOffset(),
	})
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		NotificationRepo: notificationRepo,
		Cache:            redis.Client,
		Logger:           logger,
	})
	worker.StartNotificationWorker(dispatcher, notificationService)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret)
	authMiddleware := auth.NewAuthMiddleware(tokenManager)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Incidents:       handlers.NewTicketsHandler(incidentService),
		ServiceRequests: handlers.NewTicketsHandler(requestService),
		Notifications:   handlers.NewNotificationsHandler(notificationService),
		AuthMiddleware:  authMiddleware,
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
