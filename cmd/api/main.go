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

	httptransport "github.com/qasim12343/MarketPlace-sub002/internal/api/http"
	"github.com/qasim12343/MarketPlace-sub002/internal/api/http/handlers"
	"github.com/qasim12343/MarketPlace-sub002/internal/auth"
	"github.com/qasim12343/MarketPlace-sub002/internal/config"
	"github.com/qasim12343/MarketPlace-sub002/internal/domain"
	"github.com/qasim12343/MarketPlace-sub002/internal/events"
	"github.com/qasim12343/MarketPlace-sub002/internal/observability"
	"github.com/qasim12343/MarketPlace-sub002/internal/persistence"
	"github.com/qasim12343/MarketPlace-sub002/internal/repository"
	"github.com/qasim12343/MarketPlace-sub002/internal/repository/memory"
	"github.com/qasim12343/MarketPlace-sub002/internal/service"
	"github.com/qasim12343/MarketPlace-sub002/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, cfg.App)
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var (
		ownerRepo repository.OwnerRepository
		userRepo  repository.UserRepository
		orderRepo repository.OrderRepository
	)
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		pool := pg.PoolHandle()
		ownerRepo = repository.NewOwnerRepository(pool)
		userRepo = repository.NewUserRepository(pool)
		orderRepo = repository.NewOrderRepository(pool)
	} else {
		ownerRepo = memory.NewOwnerRepository()
		userRepo = memory.NewUserRepository()
		orderRepo = memory.NewOrderRepository()
	}

	var sessionStore repository.SessionStore
	redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
	switch {
	case err == nil:
		defer redis.Close()
		sessionStore = repository.NewRedisSessionStore(redis.Client, cfg.Redis.KeyPrefix)
	case cfg.App.Env == "production":
		logger.Fatal("failed to connect redis", zap.Error(err))
	default:
		logger.Warn("redis unavailable; sessions are kept in memory", zap.Error(err))
		sessionStore = memory.NewSessionStore()
	}

	metrics := observability.NewMetrics("avina")
	dispatcher := events.NewInMemoryDispatcher(logger)
	notifications := worker.StartNotificationWorker(
		dispatcher,
		service.NewNotificationService(dispatcher, logger, cfg.Notification),
		cfg.Notification.Workers,
		cfg.Notification.QueueSize,
		logger,
	)

	sessions := service.NewSessionManager(cfg.Auth, service.SessionDependencies{
		OwnerRepo:    ownerRepo,
		UserRepo:     userRepo,
		SessionStore: sessionStore,
		Logger:       logger,
		Metrics:      metrics,
	})
	orders := service.NewOrderService(cfg.Orders, service.OrderDependencies{
		OrderRepo:  orderRepo,
		OwnerRepo:  ownerRepo,
		Dispatcher: notifications,
		Logger:     logger,
		Metrics:    metrics,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler,
		// request values end up as map keys in the in-memory stores
		Immutable: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	secureCookies := cfg.App.Env == "production"
	health := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version,
		handlers.StoreDependency(pg),
		handlers.SessionDependency(redis),
	)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		HealthHandler:    health,
		OwnerSession:     handlers.NewSessionHandler(sessions, domain.SubjectKindOwner, secureCookies),
		UserSession:      handlers.NewSessionHandler(sessions, domain.SubjectKindUser, secureCookies),
		OrdersHandler:    handlers.NewOrdersHandler(orders),
		AuthMiddleware:   auth.NewAuthMiddleware(sessions),
		CredentialsLimit: httptransport.NewRateLimiter(cfg.RateLimit),
		Metrics:          metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := notifications.Stop(shutdownCtx); err != nil {
		logger.Warn("notification worker shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
