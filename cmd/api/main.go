package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	graphqlapi "github.com/spec-kit/taskboard/internal/api/graphql"
	httptransport "github.com/spec-kit/taskboard/internal/api/http"
	"github.com/spec-kit/taskboard/internal/api/http/handlers"
	"github.com/spec-kit/taskboard/internal/auth"
	"github.com/spec-kit/taskboard/internal/config"
	"github.com/spec-kit/taskboard/internal/events"
	"github.com/spec-kit/taskboard/internal/observability"
	"github.com/spec-kit/taskboard/internal/persistence"
	"github.com/spec-kit/taskboard/internal/service"
	"github.com/spec-kit/taskboard/internal/store"
	"github.com/spec-kit/taskboard/internal/worker"
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

	var dataStore store.DataStore
	if pool := pg.PoolHandle(); pool != nil {
		dataStore = store.NewPostgresStore(pool)
	} else {
		logger.Warn("using in-memory store; data will not survive restarts")
		dataStore = store.NewMemoryStore()
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret)
	guard := auth.NewGuard(tokens, dataStore)
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(service.AuthDependencies{
		Store:      dataStore,
		Guard:      guard,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	taskService := service.NewTaskService(service.TaskDependencies{
		Store:      dataStore,
		Guard:      guard,
		Dispatcher: dispatcher,
	})
	auditService := service.NewAuditService(dispatcher, redis.Client, logger, cfg.Audit)
	worker.StartAuditWorker(auditService)

	schema, err := graphqlapi.NewSchema(graphqlapi.SchemaDeps{
		Auth:  authService,
		Tasks: taskService,
	})
	if err != nil {
		logger.Fatal("failed to build graphql schema", zap.Error(err))
	}

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	graphqlHandler := graphqlapi.NewHandler(schema, logger)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  healthHandler,
		GraphQL: graphqlHandler,
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
