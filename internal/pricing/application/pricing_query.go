package application

import (
	"context"
	"time"

	"github.com/wyfcoding/optionpricer/internal/pricing/domain"
	"github.com/wyfcoding/pkg/cache"
)

// latestRunTTL 最新定价记录在本地缓存中的保留时间。
const latestRunTTL = 30 * time.Second

func latestRunKey(symbol string) string { return "pricing:run:latest:" + symbol }

// PricingQueryService 处理所有定价相关的查询操作（Queries）。
type PricingQueryService struct {
	runRepo     domain.PricingRunRepository
	historyRepo domain.PriceHistoryRepository
	localCache  cache.Cache
}

// NewPricingQueryService 构造函数。
func NewPricingQueryService(runRepo domain.PricingRunRepository, historyRepo domain.PriceHistoryRepository, localCache cache.Cache) *PricingQueryService {
	return &PricingQueryService{
		runRepo:     runRepo,
		historyRepo: historyRepo,
		localCache:  localCache,
	}
}

// GetLatestRun 查询最新定价记录, 命中本地缓存时不回源数据库。
func (q *PricingQueryService) GetLatestRun(ctx context.Context, symbol string) (*PricingRunDTO, error) {
	if symbol == "" {
		return nil, domain.ErrSymbolRequired
	}

	if q.localCache != nil {
		var cached PricingRunDTO
		if err := q.localCache.Get(ctx, latestRunKey(symbol), &cached); err == nil {
			return &cached, nil
		}
	}

	run, err := q.runRepo.GetLatestRun(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, domain.ErrRunNotFound
	}

	dto := toPricingRunDTO(run)
	if q.localCache != nil {
		// 写缓存失败不影响查询结果。
		_ = q.localCache.Set(ctx, latestRunKey(symbol), dto, latestRunTTL)
	}
	return dto, nil
}

// ListRuns 按时间倒序列出某标的最近的定价记录。
func (q *PricingQueryService) ListRuns(ctx context.Context, symbol string, limit int) ([]*PricingRunDTO, error) {
	if symbol == "" {
		return nil, domain.ErrSymbolRequired
	}
	if limit <= 0 {
		limit = 20
	}

	runs, err := q.runRepo.ListRuns(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]*PricingRunDTO, 0, len(runs))
	for _, run := range runs {
		dtos = append(dtos, toPricingRunDTO(run))
	}
	return dtos, nil
}

// GetPriceHistory 按时间倒序列出某标的最近的历史价格观测。
func (q *PricingQueryService) GetPriceHistory(ctx context.Context, symbol string, limit int) ([]*HistoricalPriceDTO, error) {
	if symbol == "" {
		return nil, domain.ErrSymbolRequired
	}
	if limit <= 0 {
		limit = 100
	}

	prices, err := q.historyRepo.ListPrices(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]*HistoricalPriceDTO, 0, len(prices))
	for _, p := range prices {
		dtos = append(dtos, &HistoricalPriceDTO{
			Symbol:     p.Symbol,
			Price:      p.Price,
			Source:     p.Source,
			ObservedAt: p.ObservedAt.Unix(),
		})
	}
	return dtos, nil
}

// EstimateVolatility 用当前已入库的全部历史价格估计年化波动率。
func (q *PricingQueryService) EstimateVolatility(ctx context.Context, symbol string) (*VolatilityDTO, error) {
	if symbol == "" {
		return nil, domain.ErrSymbolRequired
	}

	history, err := q.historyRepo.GetHistory(ctx, symbol, 0)
	if err != nil {
		return nil, err
	}
	if history == nil || history.Len() == 0 {
		return nil, domain.ErrNoPriceHistory
	}

	vol, degraded := domain.EstimateVolatility(history.Prices)
	return &VolatilityDTO{
		Symbol:     symbol,
		Volatility: vol,
		Degraded:   degraded,
		SampleSize: history.Len(),
	}, nil
}
