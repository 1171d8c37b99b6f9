// @title                       User Admin API
// @version                     1.0
// @description                 Editable table over the remote user registry.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/99minutos/user-admin/internal/api"
	"github.com/99minutos/user-admin/internal/api/handler"
	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/service"
	"github.com/99minutos/user-admin/internal/infrastructure/db/mongo"
	"github.com/99minutos/user-admin/internal/infrastructure/db/redis"
	"github.com/99minutos/user-admin/internal/infrastructure/gateway/rest"
	"github.com/99minutos/user-admin/internal/infrastructure/queue"
	"github.com/99minutos/user-admin/internal/pkg/config"
	"github.com/99minutos/user-admin/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		File:   cfg.Log.File,
	})
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer rdb.Close()

	operators := mongo.NewOperatorRepository(db)
	auditRepo := mongo.NewAuditRepository(db)
	if err := operators.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("operator indexes not created")
	}
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("audit indexes not created")
	}

	// --- Operators ---
	authService := service.NewAuthService(operators, cfg.JWTSecret, 0)
	if cfg.Operator.Username != "" && cfg.Operator.Password != "" {
		if _, err := authService.EnsureOperator(ctx, cfg.Operator.Username, cfg.Operator.Password, domain.OperatorRoleAdmin); err != nil {
			log.Fatal().Err(err).Str("username", cfg.Operator.Username).Msg("seed operator failed")
		}
	}

	// --- Table ---
	gateway, err := rest.NewUserGateway(rest.Config{
		BaseURL: cfg.Remote.URL,
		Token:   cfg.Remote.Token,
		Timeout: cfg.Remote.Timeout,
	}, log.With().Str("component", "gateway").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("invalid remote api configuration")
	}

	// Workers run on their own context so queued entries drain after the
	// signal context is cancelled.
	auditCtx, cancelAudit := context.WithCancel(context.Background())
	defer cancelAudit()
	dispatcher := queue.NewAuditDispatcher(cfg.Audit.Workers, auditRepo, log.With().Str("component", "audit").Logger())
	dispatcher.Start(auditCtx)

	table := service.NewTableController(
		gateway,
		redis.NewRegistrationGuard(rdb, cfg.Audit.DedupTTL),
		dispatcher,
		log.With().Str("component", "table").Logger(),
	)
	if err := table.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("initial load failed, table starts empty")
	}

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Table:     table,
		Auth:      authService,
		JWTSecret: cfg.JWTSecret,
		Checks: map[string]handler.Check{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		},
		Log: log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http server shutdown failed")
	}
	dispatcher.Stop()

	log.Info().Msg("goodbye")
}
