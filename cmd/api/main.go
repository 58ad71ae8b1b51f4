package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/hostdesk/hosting-service/internal/api/http"
	"github.com/hostdesk/hosting-service/internal/api/http/handlers"
	"github.com/hostdesk/hosting-service/internal/auth"
	"github.com/hostdesk/hosting-service/internal/config"
	"github.com/hostdesk/hosting-service/internal/events"
	"github.com/hostdesk/hosting-service/internal/observability"
	"github.com/hostdesk/hosting-service/internal/panel"
	"github.com/hostdesk/hosting-service/internal/persistence"
	"github.com/hostdesk/hosting-service/internal/repository"
	"github.com/hostdesk/hosting-service/internal/service"
	"github.com/hostdesk/hosting-service/internal/worker"
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

	metrics := observability.NewMetrics()
	panelClient := panel.NewClient(cfg.Panel, logger, metrics)
	panelCache := persistence.NewPanelCache(redis, cfg.Panel.UsageCacheTTL())

	pool := pg.PoolHandle()
	accountRepo := repository.NewHostingAccountRepository(pool)
	backupRepo := repository.NewBackupRepository(pool)
	databaseRepo := repository.NewDatabaseRepository(pool)
	planRepo := repository.NewPlanRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	hostingService := service.NewHostingService(service.HostingDependencies{
		AccountRepo:  accountRepo,
		BackupRepo:   backupRepo,
		DatabaseRepo: databaseRepo,
		PlanRepo:     planRepo,
		SettingsRepo: settingsRepo,
		Panel:        panelClient,
		Cache:        panelCache,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	ticketService := service.NewTicketService(ticketRepo, dispatcher, logger)
	adminService := service.NewAdminService(planRepo, settingsRepo, userRepo, panelClient, logger)
	authService := service.NewAuthService(cfg.Auth, userRepo, settingsRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)

	if cfg.Scheduler.Enabled {
		scheduler := worker.NewScheduler(hostingService, settingsRepo, logger, cfg.Scheduler.Interval())
		go scheduler.Run(ctx)
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Hosting:        handlers.NewHostingHandler(hostingService),
		Admin:          handlers.NewAdminHandler(adminService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
