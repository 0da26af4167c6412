package repository

import (
	"context"
	"time"

	"grokcord/sources/persistence/entities"
	"grokcord/sources/platform"
	"grokcord/sources/tracing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UsageRepository writes and aggregates the usage ledger. Every method is a
// no-op returning zero values when the database is disabled.
type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

func (x *UsageRepository) Enabled() bool {
	return x != nil && x.db != nil
}

func (x *UsageRepository) SaveUsage(ctx context.Context, logger *tracing.Logger, usage *entities.Usage) error {
	if !x.Enabled() {
		return nil
	}

	ctx, cancel := platform.ContextTimeoutVal(ctx, 20*time.Second)
	defer cancel()

	if err := x.db.WithContext(ctx).Create(usage).Error; err != nil {
		logger.E("Failed to save usage", tracing.InnerError, err)
		return err
	}

	logger.D("Usage saved", tracing.AiModel, usage.Model, tracing.AiTokens, usage.Tokens, tracing.AiCost, usage.Cost.String())
	return nil
}

func (x *UsageRepository) GetTotalCost(logger *tracing.Logger) (decimal.Decimal, error) {
	if !x.Enabled() {
		return decimal.Zero, nil
	}

	defer tracing.ProfilePoint(logger, "Usage get total cost completed", "repository.usage.get.total.cost")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var totalCost *decimal.Decimal
	err := x.db.WithContext(ctx).
		Model(&entities.Usage{}).
		Select("SUM(cost)").
		Row().Scan(&totalCost)

	if err != nil {
		logger.E("Failed to get total cost", tracing.InnerError, err)
		return decimal.Zero, err
	}

	if totalCost == nil {
		return decimal.Zero, nil
	}

	return *totalCost, nil
}

func (x *UsageRepository) GetTotalTokens(logger *tracing.Logger) (int64, error) {
	if !x.Enabled() {
		return 0, nil
	}

	defer tracing.ProfilePoint(logger, "Usage get total tokens completed", "repository.usage.get.total.tokens")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var totalTokens *int64
	err := x.db.WithContext(ctx).
		Model(&entities.Usage{}).
		Select("SUM(tokens)").
		Row().Scan(&totalTokens)

	if err != nil {
		logger.E("Failed to get total tokens", tracing.InnerError, err)
		return 0, err
	}

	if totalTokens == nil {
		return 0, nil
	}

	return *totalTokens, nil
}

func (x *UsageRepository) GetUserTokensSince(logger *tracing.Logger, userID string, since time.Time) (int64, error) {
	if !x.Enabled() {
		return 0, nil
	}

	defer tracing.ProfilePoint(logger, "Usage get user tokens since completed", "repository.usage.get.user.tokens.since", tracing.UserId, userID)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var tokens *int64
	err := x.db.WithContext(ctx).
		Model(&entities.Usage{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Select("SUM(tokens)").
		Row().Scan(&tokens)

	if err != nil {
		logger.E("Failed to get user tokens since", "since", since, tracing.InnerError, err)
		return 0, err
	}

	if tokens == nil {
		return 0, nil
	}

	return *tokens, nil
}

func (x *UsageRepository) GetTotalUsersCount(logger *tracing.Logger) (int64, error) {
	return x.GetActiveUsersCount(logger, time.Time{})
}

func (x *UsageRepository) GetActiveUsersCount(logger *tracing.Logger, since time.Time) (int64, error) {
	if !x.Enabled() {
		return 0, nil
	}

	defer tracing.ProfilePoint(logger, "Usage get active users completed", "repository.usage.get.active.users")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var count int64
	err := x.db.WithContext(ctx).
		Model(&entities.Usage{}).
		Where("created_at >= ?", since).
		Distinct("user_id").
		Count(&count).Error

	if err != nil {
		logger.E("Failed to get active users count", "since", since, tracing.InnerError, err)
		return 0, err
	}

	return count, nil
}
