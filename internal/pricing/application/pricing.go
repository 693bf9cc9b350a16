package application

import (
	"context"
	"time"

	"github.com/wyfcoding/optionpricer/internal/pricing/domain"
	"github.com/wyfcoding/pkg/cache"
	"github.com/wyfcoding/pkg/metrics"
	"github.com/wyfcoding/pkg/worker"
)

// PricingDefaults 服务级缺省定价参数, 来自配置文件的 [pricing] 段。
// 零值字段回退到领域常量, 与原始命令行程序的默认值一致。
type PricingDefaults struct {
	RiskFreeRate float64 // 按历史定价时缺省的无风险利率
	Maturity     float64 // 缺省到期时间 (年)
	SampleCount  int64   // 缺省模拟路径数
	Workers      int     // 缺省并行 worker 数, 0 交由引擎取核数
}

// normalized 用领域常量填充未配置的字段。
func (d PricingDefaults) normalized() PricingDefaults {
	if d.RiskFreeRate == 0 {
		d.RiskFreeRate = domain.DefaultRiskFreeRate
	}
	if d.Maturity == 0 {
		d.Maturity = domain.DefaultMaturity
	}
	if d.SampleCount == 0 {
		d.SampleCount = domain.DefaultSampleCount
	}
	return d
}

// PricingService 定价门面服务。
type PricingService struct {
	Command *PricingCommandService
	Query   *PricingQueryService
}

// NewPricingService 构造函数。
func NewPricingService(
	runRepo domain.PricingRunRepository,
	historyRepo domain.PriceHistoryRepository,
	source domain.PriceHistorySource,
	publisher domain.EventPublisher,
	localCache cache.Cache,
	pool *worker.Pool,
	defaults PricingDefaults,
	m *metrics.Metrics,
) *PricingService {
	return &PricingService{
		Command: NewPricingCommandService(runRepo, historyRepo, source, publisher, localCache, pool, defaults, NewPricingMetrics(m)),
		Query:   NewPricingQueryService(runRepo, historyRepo, localCache),
	}
}

// --- Command Facade ---

func (s *PricingService) PriceOption(ctx context.Context, cmd PriceOptionCommand) (*PricingRunDTO, error) {
	return s.Command.PriceOption(ctx, cmd)
}

func (s *PricingService) PriceFromHistory(ctx context.Context, cmd PriceFromHistoryCommand) (*PricingRunDTO, error) {
	return s.Command.PriceFromHistory(ctx, cmd)
}

func (s *PricingService) ImportPriceHistory(ctx context.Context, cmd ImportPriceHistoryCommand) (*ImportResultDTO, error) {
	return s.Command.ImportPriceHistory(ctx, cmd)
}

func (s *PricingService) RecordMarketPrice(ctx context.Context, symbol string, price float64, observedAt time.Time) error {
	return s.Command.RecordMarketPrice(ctx, symbol, price, observedAt)
}

// --- Query Facade ---

func (s *PricingService) GetLatestRun(ctx context.Context, symbol string) (*PricingRunDTO, error) {
	return s.Query.GetLatestRun(ctx, symbol)
}

func (s *PricingService) ListRuns(ctx context.Context, symbol string, limit int) ([]*PricingRunDTO, error) {
	return s.Query.ListRuns(ctx, symbol, limit)
}

func (s *PricingService) GetPriceHistory(ctx context.Context, symbol string, limit int) ([]*HistoricalPriceDTO, error) {
	return s.Query.GetPriceHistory(ctx, symbol, limit)
}

func (s *PricingService) EstimateVolatility(ctx context.Context, symbol string) (*VolatilityDTO, error) {
	return s.Query.EstimateVolatility(ctx, symbol)
}
