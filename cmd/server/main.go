package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/socialgram/config"
	"github.com/d60-Lab/socialgram/internal/api"
	"github.com/d60-Lab/socialgram/internal/api/handler"
	"github.com/d60-Lab/socialgram/internal/bootstrap"
	"github.com/d60-Lab/socialgram/internal/service"
	"github.com/d60-Lab/socialgram/internal/storage"
	"github.com/d60-Lab/socialgram/pkg/jwtutil"
	"github.com/d60-Lab/socialgram/pkg/logger"
	"github.com/d60-Lab/socialgram/pkg/tracing"
)

// @title socialgram API
// @version 1.0
// @description Usuários, relações de seguir, posts e interações.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer <token>
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg); err != nil {
		logger.Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			AttachStacktrace: true,
		}); err != nil {
			return err
		}
		defer sentry.Flush(2 * time.Second)
	}

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.Init(ctx, cfg.Tracing)
		if err != nil {
			return err
		}
		defer func() { _ = shutdown(context.Background()) }()
	}

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	userCache, closeCache, err := bootstrap.UserCache(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() { _ = closeCache() }()

	pub, closePub, err := bootstrap.Publisher(cfg.NATS)
	if err != nil {
		return err
	}
	defer func() { _ = closePub() }()

	images := storage.NewLocalImageStore(cfg.Upload.Dir, cfg.Upload.URLPrefix)
	auth := service.NewAuthService(jwtutil.NewManager(cfg.JWT.Secret, cfg.JWT.Expire), store.Users, userCache)
	h := handler.New(
		service.NewUserService(store.Users, auth, service.BcryptHasher{}, images, userCache),
		service.NewRelationshipService(store.Users, store.Relations, userCache, pub),
		service.NewPostService(store.Posts, store.Users, images, pub),
		cfg.Upload.MaxSizeMB,
	)

	if cfg.Relation.ReconcileInterval > 0 {
		stop := service.NewRelationReconciler(store.Auditor, userCache, cfg.Relation.ReconcileBatch).
			Start(cfg.Relation.ReconcileInterval)
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			_ = stop(stopCtx)
		}()
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(cfg, h, auth),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
