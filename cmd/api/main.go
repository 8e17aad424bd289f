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

	httptransport "github.com/eventhub-dev/eventhub/internal/api/http"
	"github.com/eventhub-dev/eventhub/internal/api/http/handlers"
	"github.com/eventhub-dev/eventhub/internal/auth"
	"github.com/eventhub-dev/eventhub/internal/config"
	"github.com/eventhub-dev/eventhub/internal/events"
	"github.com/eventhub-dev/eventhub/internal/observability"
	"github.com/eventhub-dev/eventhub/internal/persistence"
	"github.com/eventhub-dev/eventhub/internal/repository"
	"github.com/eventhub-dev/eventhub/internal/service"
	"github.com/eventhub-dev/eventhub/internal/status"
	"github.com/eventhub-dev/eventhub/internal/worker"
	"github.com/eventhub-dev/eventhub/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, pgErr := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if pgErr != nil {
		logger.Warn("invalid postgres configuration", zap.Error(pgErr))
	}
	defer pg.Close()

	rdb, redisErr := persistence.NewRedis(cfg.Redis, logger)
	if redisErr != nil {
		logger.Warn("invalid redis configuration", zap.Error(redisErr))
	}
	defer rdb.Close()

	mongoDB, mongoErr := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if mongoErr != nil {
		logger.Warn("invalid mongodb configuration", zap.Error(mongoErr))
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		mongoDB.Close(closeCtx)
	}()

	tracker := status.NewTracker(logger, cfg.App.ConnectTimeout(), status.MongoDB, status.PostgreSQL, status.Redis)
	<-tracker.Start(ctx,
		status.Probe{Name: status.PostgreSQL, Check: pg.Ping},
		status.Probe{Name: status.Redis, Check: rdb.Ping},
		status.Probe{Name: status.MongoDB, Check: mongoDB.Ping},
	)

	dispatcher := events.NewInMemoryDispatcher(logger)

	var (
		userRepo     repository.UserRepository
		pollRepo     repository.PollRepository
		draftRepo    repository.DraftRepository
		activityRepo repository.ActivityRepository
	)

	pgUp := tracker.Get(status.PostgreSQL) == status.Connected
	if cfg.Postgres.RunMigrations {
		if err := migrateIfConnected(ctx, tracker, func(ctx context.Context) error {
			return persistence.RunMigrations(ctx, pg.PoolHandle(), migrations.FS(), logger)
		}); err != nil {
			logger.Error("postgres migrations failed; postgres-backed stores disabled", zap.Error(err))
			pgUp = false
		}
	}
	switch {
	case cfg.App.UserStore == config.UserStorePostgres && !pgUp:
		logger.Fatal("USER_STORE=postgres but postgres is unavailable or unmigrated")
	case cfg.App.UserStore == config.UserStorePostgres:
		userRepo = repository.NewUserRepository(pg.PoolHandle())
	default:
		userRepo = repository.NewMemoryUserRepository()
	}

	if pgUp {
		pollRepo = repository.NewPollRepository(pg.PoolHandle())
	} else {
		logger.Warn("postgres unavailable; published polls are kept in memory")
		pollRepo = repository.NewMemoryPollRepository()
	}

	if tracker.Get(status.Redis) == status.Connected {
		draftRepo = repository.NewDraftRepository(rdb.Client, cfg.Polls.DraftTTL())
	} else {
		logger.Warn("redis unavailable; poll drafts are kept in memory")
		draftRepo = repository.NewMemoryDraftRepository()
	}

	if tracker.Get(status.MongoDB) == status.Connected {
		activityRepo = repository.NewActivityRepository(mongoDB.DB)
	} else {
		logger.Warn("mongodb unavailable; activity is kept in memory")
		activityRepo = repository.NewMemoryActivityRepository()
	}

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	pollService := service.NewPollService(service.PollDependencies{
		Drafts:     draftRepo,
		Polls:      pollRepo,
		Dispatcher: dispatcher,
	})
	activityService := service.NewActivityService(dispatcher, activityRepo, logger)
	worker.StartActivityWorker(activityService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Status: handlers.NewStatusHandler(tracker),
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			status.PostgreSQL: pg,
			status.Redis:      rdb,
			status.MongoDB:    mongoDB,
		}, metrics),
		Users:          handlers.NewUsersHandler(authService, activityService, metrics),
		Polls:          handlers.NewPollsHandler(pollService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
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

// migrateIfConnected runs migrate only when the startup probe reached
// postgres. Its outcome never changes the reported connection state.
func migrateIfConnected(ctx context.Context, tracker *status.Tracker, migrate func(context.Context) error) error {
	if tracker.Get(status.PostgreSQL) != status.Connected {
		return nil
	}
	return migrate(ctx)
}
