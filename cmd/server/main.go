package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/sns-backend/config"
	"github.com/d60-Lab/sns-backend/internal/api/handler"
	"github.com/d60-Lab/sns-backend/internal/api/middleware"
	"github.com/d60-Lab/sns-backend/internal/api/router"
	"github.com/d60-Lab/sns-backend/internal/cache"
	"github.com/d60-Lab/sns-backend/internal/model"
	"github.com/d60-Lab/sns-backend/internal/repository"
	"github.com/d60-Lab/sns-backend/internal/service"
	"github.com/d60-Lab/sns-backend/pkg/database"
	"github.com/d60-Lab/sns-backend/pkg/logger"
	"github.com/d60-Lab/sns-backend/pkg/response"
	"github.com/d60-Lab/sns-backend/pkg/tracing"
)

// @title SNS Backend API
// @version 1.0
// @description 社交网络后端：账号、帖子、评论、点赞/点踩与关注关系
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Env); err != nil {
		panic(err)
	}
	defer logger.Sync()
	response.Init(cfg.Env)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Env}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	shutdownTracing, err := tracing.Init(ctx, cfg)
	if err != nil {
		logger.Error("tracing init failed", zap.Error(err))
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("database init failed", zap.Error(err))
		return
	}
	if err := model.AutoMigrate(db); err != nil {
		logger.Error("migration failed", zap.Error(err))
		return
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, follower cache disabled", zap.Error(err))
			rdb = nil
		}
	}

	// repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)
	fanRepo := repository.NewFanRepository(db)
	reactionRepo := repository.NewReactionRepository(db)

	// services
	followerCache := cache.NewFollowers(db, rdb, fanRepo, cfg.Redis.TTL)
	replicator := service.NewFanReplicator(fanRepo, 10000)
	replicator.OnReplicated(func(ctx context.Context, userID string) {
		followerCache.Invalidate(ctx, userID)
	})
	stopReplicator := replicator.Start(4)

	tokens := service.NewTokenService(cfg.JWT)
	sessions := service.NewSessionService(userRepo, tokens)
	viewSvc := service.NewPostViewAssembler(reactionRepo)
	users := service.NewUserService(userRepo, postRepo, viewSvc)
	posts := service.NewPostService(postRepo, reactionRepo, viewSvc)
	comments := service.NewCommentService(commentRepo, postRepo)
	relations := service.NewRelationshipService(userRepo, followRepo, followerCache, replicator)

	h := handler.New(cfg, sessions, users, posts, comments, relations)
	engine := router.New(cfg, h, middleware.AuthGate(tokens, userRepo))

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: engine}
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	_ = stopReplicator(shutdownCtx)
	if shutdownTracing != nil {
		_ = shutdownTracing(shutdownCtx)
	}
}
