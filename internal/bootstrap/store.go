// Package bootstrap 按配置装配存储后端与可选的外部依赖
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/d60-Lab/socialgram/config"
	"github.com/d60-Lab/socialgram/internal/cache"
	"github.com/d60-Lab/socialgram/internal/events"
	"github.com/d60-Lab/socialgram/internal/repository"
	"github.com/d60-Lab/socialgram/internal/repository/mongostore"
	"github.com/d60-Lab/socialgram/pkg/database"
	"github.com/d60-Lab/socialgram/pkg/logger"
	"github.com/d60-Lab/socialgram/pkg/mongodb"
)

// OpenStore database.driver 为 mongo 时使用文档型后端，其余走 gorm
func OpenStore(ctx context.Context, cfg *config.Config) (*repository.Store, error) {
	if cfg.Database.Driver == "mongo" {
		client, err := mongodb.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, client, cfg.Mongo.Database); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		logger.Info("using document store", zap.String("database", cfg.Mongo.Database))
		return mongostore.NewStore(client, cfg.Mongo.Database), nil
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := repository.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("using relational store", zap.String("driver", cfg.Database.Driver))
	return repository.NewGormStore(db), nil
}

// UserCache redis.addr 为空时返回 Nop；close 释放连接
func UserCache(ctx context.Context, cfg config.RedisConfig) (cache.UserCache, func() error, error) {
	if cfg.Addr == "" {
		return cache.Nop{}, func() error { return nil }, nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewRedisUserCache(client, cfg.TTL), client.Close, nil
}

// Publisher nats.url 为空时返回 Nop
func Publisher(cfg config.NATSConfig) (events.Publisher, func() error, error) {
	if cfg.URL == "" {
		return events.Nop{}, func() error { return nil }, nil
	}
	pub, err := events.NewNATSPublisher(cfg.URL, cfg.Subject)
	if err != nil {
		return nil, nil, err
	}
	return pub, pub.Close, nil
}
