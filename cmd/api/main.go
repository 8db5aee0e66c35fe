package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/trip-planner/internal/api/http"
	"github.com/spec-kit/trip-planner/internal/api/http/handlers"
	"github.com/spec-kit/trip-planner/internal/auth"
	"github.com/spec-kit/trip-planner/internal/cache"
	"github.com/spec-kit/trip-planner/internal/config"
	"github.com/spec-kit/trip-planner/internal/events"
	"github.com/spec-kit/trip-planner/internal/observability"
	"github.com/spec-kit/trip-planner/internal/persistence"
	"github.com/spec-kit/trip-planner/internal/repository"
	"github.com/spec-kit/trip-planner/internal/service"
	"github.com/spec-kit/trip-planner/internal/worker"
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
	userRepo := repository.NewUserRepository(pool)
	itineraryRepo := repository.NewItineraryRepository(pool)
	itineraryCache := cache.NewItineraryCache(redis, cfg.Redis.CacheTTL(), logger)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, userRepo)
	itineraryService := service.NewItineraryService(service.ItineraryDependencies{
		ItineraryRepo: itineraryRepo,
		UserRepo:      userRepo,
		Cache:         itineraryCache,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Itineraries:    handlers.NewItinerariesHandler(itineraryService),
		Items:          handlers.NewItemsHandler(itineraryService),
		Expenses:       handlers.NewExpensesHandler(itineraryService),
		Collaborators:  handlers.NewCollaboratorsHandler(itineraryService),
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
