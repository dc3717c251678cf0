package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/apartment-bureau/landing-service/internal/api/http"
	"github.com/apartment-bureau/landing-service/internal/api/http/handlers"
	"github.com/apartment-bureau/landing-service/internal/config"
	"github.com/apartment-bureau/landing-service/internal/events"
	"github.com/apartment-bureau/landing-service/internal/gate"
	"github.com/apartment-bureau/landing-service/internal/observability"
	"github.com/apartment-bureau/landing-service/internal/persistence"
	"github.com/apartment-bureau/landing-service/internal/relay"
	"github.com/apartment-bureau/landing-service/internal/repository"
	"github.com/apartment-bureau/landing-service/internal/service"
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

	pool := pg.PoolHandle()
	subscriberRepo := repository.NewSubscriberRepository(pool)
	applicationRepo := repository.NewApplicationRepository(pool)
	articleRepo := repository.NewArticleRepository(pool)
	contentRepo := repository.NewContentRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)

	var sessions gate.SessionStore
	if err := redis.Ping(ctx); err == nil {
		sessions = gate.NewRedisSessionStore(redis.Client, cfg.Admin.SessionTTL())
	} else {
		logger.Warn("redis unavailable; admin sessions held in process memory")
		sessions = gate.NewMemorySessionStore(cfg.Admin.SessionTTL())
	}

	gateMiddleware := gate.NewMiddleware(gate.MiddlewareOptions{
		Secret:     cfg.Admin.JWTSecret,
		PathPrefix: cfg.Admin.PathPrefix,
		CookieName: cfg.Admin.SessionCookie,
		SessionTTL: cfg.Admin.SessionTTL(),
	}, sessions, logger)
	if !gateMiddleware.Enabled() {
		logger.Warn("ADMIN_JWT_SECRET not set; admin console is NOT gated (development only)")
	}

	botClient := relay.NewHTTPClient(cfg.Telegram.BotToken, cfg.Telegram.RequestTimeout())
	sender := relay.NewSender(botClient, subscriberRepo, logger, cfg.Telegram.ChatID)
	poller := relay.NewPoller(botClient, subscriberRepo, dispatcher, logger, relay.PollerOptions{
		Interval:        cfg.Telegram.PollInterval(),
		LongPollSeconds: cfg.Telegram.LongPollSeconds,
		RequestTimeout:  cfg.Telegram.RequestTimeout(),
	})

	applicationService := service.NewApplicationService(applicationRepo, dispatcher, logger)
	contentService := service.NewContentService(contentRepo, articleRepo, logger)
	notificationService := service.NewNotificationService(dispatcher, sender, applicationRepo, metrics, logger)
	notificationService.RegisterHandlers()

	// A supervisor that forks or reloads workers must pin exactly one polling
	// instance per deployment; duplicate pollers race on the shared cursor.
	switch {
	case cfg.Telegram.BotToken == "":
		logger.Warn("TELEGRAM_BOT_TOKEN not set; telegram polling disabled")
	case !cfg.Telegram.PollingEnabled:
		logger.Info("telegram polling disabled via TELEGRAM_POLLING_ENABLED")
	default:
		poller.Start()
		defer poller.Stop()
	}

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Landing:  handlers.NewLandingHandler(contentService, applicationService),
		Articles: handlers.NewArticlesHandler(contentService),
		Admin:    handlers.NewAdminHandler(applicationService, subscriberRepo, articleRepo, sender),
		Gate:     gateMiddleware,
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
