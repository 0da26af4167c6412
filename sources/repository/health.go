package repository

import (
	"context"
	"time"

	"grokcord/sources/platform"
	"grokcord/sources/tracing"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	HealthOK       = "ok"
	HealthDisabled = "disabled"
	HealthFailed   = "failed"
)

type HealthRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewHealthRepository(db *gorm.DB, redis *redis.Client) *HealthRepository {
	return &HealthRepository{db: db, redis: redis}
}

func (x *HealthRepository) CheckDatabaseHealth(logger *tracing.Logger) string {
	if x.db == nil {
		return HealthDisabled
	}

	defer tracing.ProfilePoint(logger, "Health check database completed", "repository.health.check.database")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 1*time.Second)
	defer cancel()

	sqlDB, err := x.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}

	if err != nil {
		logger.E("Database health check failed", tracing.InnerError, err)
		return HealthFailed
	}

	return HealthOK
}

func (x *HealthRepository) CheckRedisHealth(logger *tracing.Logger) string {
	if x.redis == nil {
		return HealthDisabled
	}

	defer tracing.ProfilePoint(logger, "Health check redis completed", "repository.health.check.redis")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 1*time.Second)
	defer cancel()

	if err := x.redis.Ping(ctx).Err(); err != nil {
		logger.E("Redis health check failed", tracing.InnerError, err)
		return HealthFailed
	}

	return HealthOK
}

// Check runs every probe and reports the per-component status.
func (x *HealthRepository) Check(logger *tracing.Logger) map[string]string {
	return map[string]string{
		"database": x.CheckDatabaseHealth(logger),
		"redis":    x.CheckRedisHealth(logger),
	}
}
