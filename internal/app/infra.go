package app

import (
	"context"
	"errors"

	"comic-service/internal/account"
	"comic-service/internal/config"
	"comic-service/internal/db"
	"comic-service/internal/history"
	"comic-service/internal/logger"
	"comic-service/internal/redis"
	"comic-service/internal/session"
)

// Infra holds the backing stores. Without DATABASE_DSN or REDIS_ADDR the
// matching in-memory store is used.
type Infra struct {
	DB    *db.DB
	Redis *redis.Client

	Accounts account.Store
	History  history.Store
	Sessions session.Store
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{}

	if cfg.DatabaseDSN != "" {
		database, err := db.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		infra.DB = database
		infra.Accounts = account.NewPostgresStore(database)
		infra.History = history.NewPostgresStore(database)
		logger.Info("database ready", nil)
	} else {
		infra.Accounts = account.NewMemoryStore()
		infra.History = history.NewMemoryStore()
		logger.Warn("DATABASE_DSN not set, using in-memory account and history stores", nil)
	}

	if cfg.RedisAddr != "" {
		redisClient, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			_ = infra.Close()
			return nil, err
		}
		infra.Redis = redisClient
		infra.Sessions = session.NewRedisStore(redisClient.Client)
		logger.Info("redis ready", nil)
	} else {
		infra.Sessions = session.NewMemoryStore()
		logger.Warn("REDIS_ADDR not set, using in-memory session store", nil)
	}

	return infra, nil
}

func (i *Infra) Close() error {
	var errs []error
	if i.DB != nil {
		errs = append(errs, i.DB.Close())
	}
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	return errors.Join(errs...)
}
