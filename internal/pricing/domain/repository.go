package domain

import "context"

// PricingRunRepository 定价记录仓储接口
type PricingRunRepository interface {
	// WithTx 在单个数据库事务中执行 fn, 事务实例通过 context 传递。
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	SaveRun(ctx context.Context, run *PricingRun) error
	GetLatestRun(ctx context.Context, symbol string) (*PricingRun, error)
	ListRuns(ctx context.Context, symbol string, limit int) ([]*PricingRun, error)
}

// PriceHistoryRepository 历史价格仓储接口
type PriceHistoryRepository interface {
	SavePrice(ctx context.Context, price *HistoricalPrice) error
	SavePrices(ctx context.Context, prices []*HistoricalPrice) error
	// GetHistory 返回最近 limit 条观测, 按时间升序排列; limit <= 0 表示全部。
	GetHistory(ctx context.Context, symbol string, limit int) (*PriceHistory, error)
	ListPrices(ctx context.Context, symbol string, limit int) ([]*HistoricalPrice, error)
}
