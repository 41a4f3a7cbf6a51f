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

	httptransport "github.com/spec-kit/titan-observatory/internal/api/http"
	"github.com/spec-kit/titan-observatory/internal/api/http/handlers"
	"github.com/spec-kit/titan-observatory/internal/auth"
	"github.com/spec-kit/titan-observatory/internal/cache"
	"github.com/spec-kit/titan-observatory/internal/config"
	"github.com/spec-kit/titan-observatory/internal/events"
	"github.com/spec-kit/titan-observatory/internal/newsletter"
	"github.com/spec-kit/titan-observatory/internal/observability"
	"github.com/spec-kit/titan-observatory/internal/persistence"
	"github.com/spec-kit/titan-observatory/internal/repository"
	"github.com/spec-kit/titan-observatory/internal/service"
	"github.com/spec-kit/titan-observatory/internal/worker"
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

	if cfg.Postgres.DSN == "" {
		logger.Fatal("POSTGRES_DSN is required")
	}
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

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	admins := auth.NewAdminSet(cfg.Auth.AdminEmails)
	if admins.Len() == 0 && !cfg.App.IsProduction() {
		logger.Warn("ADMIN_EMAILS is empty; no account will have admin access")
	}
	if cfg.Auth.InviteCode == "" {
		logger.Warn("REGISTER_INVITE_CODE is unset; registration is disabled")
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	postRepo := repository.NewPostRepository(pool)
	postCache := cache.NewRedisPostCache(redis.Handle(), cfg.Redis.PostsTTL())

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)

	authService, err := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: userRepo,
		Admins:   admins,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	registrationService := service.NewRegistrationService(*cfg, service.RegistrationDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	postService := service.NewPostService(service.PostDependencies{
		PostRepo:   postRepo,
		Cache:      postCache,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	newsletterService := service.NewNewsletterService(cfg.Newsletter, service.NewsletterDependencies{
		Client:     newsletter.NewBrevoClient(cfg.Newsletter),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), admins)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	var redisPinger handlers.Pinger
	if redis.Handle() != nil {
		redisPinger = redis
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisPinger),
		Register:       handlers.NewRegisterHandler(registrationService),
		Session:        handlers.NewSessionHandler(authService),
		Posts:          handlers.NewPostsHandler(postService),
		Newsletter:     handlers.NewNewsletterHandler(newsletterService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
