package mysql

import (
	"context"

	"github.com/wyfcoding/optionpricer/internal/pricing/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

type priceHistoryRepository struct {
	db *gorm.DB
}

// NewPriceHistoryRepository 创建并返回一个新的 priceHistoryRepository 实例。
func NewPriceHistoryRepository(db *gorm.DB) domain.PriceHistoryRepository {
	return &priceHistoryRepository{db: db}
}

func (r *priceHistoryRepository) SavePrice(ctx context.Context, price *domain.HistoricalPrice) error {
	model := toHistoricalPriceModel(price)
	if model == nil {
		return nil
	}
	if err := r.getDB(ctx).WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	price.ID = model.ID
	price.CreatedAt = model.CreatedAt
	price.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *priceHistoryRepository) SavePrices(ctx context.Context, prices []*domain.HistoricalPrice) error {
	if len(prices) == 0 {
		return nil
	}
	models := make([]*HistoricalPriceModel, 0, len(prices))
	for _, p := range prices {
		models = append(models, toHistoricalPriceModel(p))
	}
	if err := r.getDB(ctx).WithContext(ctx).CreateInBatches(models, 500).Error; err != nil {
		return err
	}
	for i, m := range models {
		prices[i].ID = m.ID
	}
	return nil
}

// GetHistory 返回升序价格序列。自增主键保留了写入顺序, 即观测的时间顺序。
func (r *priceHistoryRepository) GetHistory(ctx context.Context, symbol string, limit int) (*domain.PriceHistory, error) {
	db := r.getDB(ctx).WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("id desc")
	if limit > 0 {
		db = db.Limit(limit)
	}
	var models []HistoricalPriceModel
	if err := db.Find(&models).Error; err != nil {
		return nil, err
	}

	history := &domain.PriceHistory{
		Symbol: symbol,
		Prices: make([]float64, len(models)),
	}
	// 倒序查询结果翻转为升序。
	for i := range models {
		history.Prices[len(models)-1-i] = models[i].Price
	}
	return history, nil
}

func (r *priceHistoryRepository) ListPrices(ctx context.Context, symbol string, limit int) ([]*domain.HistoricalPrice, error) {
	var models []HistoricalPriceModel
	if err := r.getDB(ctx).WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("id desc").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}
	prices := make([]*domain.HistoricalPrice, len(models))
	for i := range models {
		prices[i] = toHistoricalPrice(&models[i])
	}
	return prices, nil
}

func (r *priceHistoryRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}
