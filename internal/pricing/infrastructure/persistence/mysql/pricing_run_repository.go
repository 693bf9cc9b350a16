package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/optionpricer/internal/pricing/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

type pricingRunRepository struct {
	db *gorm.DB
}

// NewPricingRunRepository 创建并返回一个新的 pricingRunRepository 实例。
func NewPricingRunRepository(db *gorm.DB) domain.PricingRunRepository {
	return &pricingRunRepository{db: db}
}

// WithTx 在单个事务中执行 fn, 事务实例通过 context 传递给嵌套的仓储调用。
func (r *pricingRunRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextx.WithTx(ctx, tx)
		return fn(txCtx)
	})
}

// SaveRun 定价记录只增不改。
func (r *pricingRunRepository) SaveRun(ctx context.Context, run *domain.PricingRun) error {
	model := toPricingRunModel(run)
	if model == nil {
		return nil
	}
	if err := r.getDB(ctx).WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	run.ID = model.ID
	run.CreatedAt = model.CreatedAt
	run.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *pricingRunRepository) GetLatestRun(ctx context.Context, symbol string) (*domain.PricingRun, error) {
	var m PricingRunModel
	if err := r.getDB(ctx).WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("calculated_at desc, id desc").
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toPricingRun(&m), nil
}

func (r *pricingRunRepository) ListRuns(ctx context.Context, symbol string, limit int) ([]*domain.PricingRun, error) {
	var models []PricingRunModel
	if err := r.getDB(ctx).WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("calculated_at desc, id desc").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}
	runs := make([]*domain.PricingRun, len(models))
	for i := range models {
		runs[i] = toPricingRun(&models[i])
	}
	return runs, nil
}

func (r *pricingRunRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}
