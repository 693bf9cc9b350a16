package application

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/optionpricer/internal/pricing/domain"
	"github.com/wyfcoding/pkg/cache"
	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/worker"
)

// PricingCommandService 处理定价相关的命令操作
// 使用 Outbox 发布领域事件
type PricingCommandService struct {
	runRepo     domain.PricingRunRepository
	historyRepo domain.PriceHistoryRepository
	source      domain.PriceHistorySource
	publisher   domain.EventPublisher
	localCache  cache.Cache
	pool        *worker.Pool
	defaults    PricingDefaults
	metrics     *PricingMetrics
}

// NewPricingCommandService 创建新的 PricingCommandService 实例
func NewPricingCommandService(
	runRepo domain.PricingRunRepository,
	historyRepo domain.PriceHistoryRepository,
	source domain.PriceHistorySource,
	publisher domain.EventPublisher,
	localCache cache.Cache,
	pool *worker.Pool,
	defaults PricingDefaults,
	metrics *PricingMetrics,
) *PricingCommandService {
	return &PricingCommandService{
		runRepo:     runRepo,
		historyRepo: historyRepo,
		source:      source,
		publisher:   publisher,
		localCache:  localCache,
		pool:        pool,
		defaults:    defaults.normalized(),
		metrics:     metrics,
	}
}

// PriceOption 期权定价。模拟在事务外执行, 事务内只做落库与事件发布。
func (c *PricingCommandService) PriceOption(ctx context.Context, cmd PriceOptionCommand) (*PricingRunDTO, error) {
	if cmd.Symbol == "" {
		return nil, domain.ErrSymbolRequired
	}
	if cmd.Model == "" {
		cmd.Model = domain.ModelMonteCarlo
	}

	started := time.Now()
	result, err := c.compute(cmd)
	if err != nil {
		c.metrics.RecordRun(cmd.Model, "error", time.Since(started), 0)
		return nil, err
	}

	run := &domain.PricingRun{
		Symbol:             cmd.Symbol,
		Model:              cmd.Model,
		Spot:               decimal.NewFromFloat(cmd.Spot),
		Strike:             decimal.NewFromFloat(cmd.Strike),
		RiskFreeRate:       cmd.RiskFreeRate,
		Volatility:         cmd.Volatility,
		VolatilityDegraded: cmd.VolatilityDegraded,
		Maturity:           cmd.Maturity,
		SampleCount:        result.SampleCount,
		Workers:            result.Workers,
		Price:              decimal.NewFromFloat(result.Price),
		StandardError:      decimal.NewFromFloat(result.StandardError),
		AverageTerminal:    decimal.NewFromFloat(result.AverageTerminalPrice),
		ConfidenceLow:      decimal.NewFromFloat(result.ConfidenceLow),
		ConfidenceHigh:     decimal.NewFromFloat(result.ConfidenceHigh),
		ElapsedMs:          result.Elapsed.Milliseconds(),
		Throughput:         result.Throughput,
		CalculatedAt:       time.Now().Unix(),
	}

	err = c.runRepo.WithTx(ctx, func(txCtx context.Context) error {
		tx := contextx.GetTx(txCtx)

		if err := c.runRepo.SaveRun(txCtx, run); err != nil {
			return err
		}

		if c.publisher == nil {
			return nil
		}

		event := domain.OptionPricedEvent{
			Symbol:             run.Symbol,
			Model:              run.Model,
			Spot:               cmd.Spot,
			Strike:             cmd.Strike,
			RiskFreeRate:       cmd.RiskFreeRate,
			Volatility:         cmd.Volatility,
			VolatilityDegraded: cmd.VolatilityDegraded,
			Maturity:           cmd.Maturity,
			SampleCount:        result.SampleCount,
			Price:              result.Price,
			StandardError:      result.StandardError,
			ConfidenceLow:      result.ConfidenceLow,
			ConfidenceHigh:     result.ConfidenceHigh,
			CalculatedAt:       run.CalculatedAt,
			OccurredOn:         time.Now(),
		}
		return c.publisher.PublishInTx(txCtx, tx, domain.OptionPricedEventType, run.Symbol, event)
	})
	if err != nil {
		c.metrics.RecordRun(cmd.Model, "error", time.Since(started), 0)
		return nil, err
	}

	c.invalidateLatest(ctx, run.Symbol)
	c.metrics.RecordRun(cmd.Model, "success", result.Elapsed, result.Throughput)
	return toPricingRunDTO(run), nil
}

// PriceFromHistory 基于已入库的历史价格定价: 现价取最近观测, 波动率由对数收益估计。
func (c *PricingCommandService) PriceFromHistory(ctx context.Context, cmd PriceFromHistoryCommand) (*PricingRunDTO, error) {
	if cmd.Symbol == "" {
		return nil, domain.ErrSymbolRequired
	}

	history, err := c.historyRepo.GetHistory(ctx, cmd.Symbol, 0)
	if err != nil {
		return nil, err
	}
	if history == nil || history.Len() == 0 {
		return nil, domain.ErrNoPriceHistory
	}

	vol, degraded := domain.EstimateVolatility(history.Prices)
	if degraded {
		logging.Warn(ctx, "insufficient history, using fallback volatility",
			"symbol", cmd.Symbol, "observations", history.Len(), "volatility", vol)
	}

	if c.publisher != nil {
		_ = c.publisher.Publish(ctx, domain.VolatilityEstimatedEventType, cmd.Symbol, domain.VolatilityEstimatedEvent{
			Symbol:      cmd.Symbol,
			Volatility:  vol,
			Degraded:    degraded,
			SampleSize:  history.Len(),
			EstimatedAt: time.Now().Unix(),
			OccurredOn:  time.Now(),
		})
	}

	spot := history.Spot()
	strike := cmd.Strike
	if strike == 0 {
		strike = spot // 平值策略
	}
	rate := cmd.RiskFreeRate
	if rate == 0 {
		rate = c.defaults.RiskFreeRate
	}
	maturity := cmd.Maturity
	if maturity == 0 {
		maturity = c.defaults.Maturity
	}
	samples := cmd.SampleCount
	if samples == 0 {
		samples = c.defaults.SampleCount
	}
	workers := cmd.Workers
	if workers == 0 {
		workers = c.defaults.Workers
	}

	return c.PriceOption(ctx, PriceOptionCommand{
		Symbol:             cmd.Symbol,
		Model:              cmd.Model,
		Spot:               spot,
		Strike:             strike,
		RiskFreeRate:       rate,
		Volatility:         vol,
		VolatilityDegraded: degraded,
		Maturity:           maturity,
		SampleCount:        samples,
		Workers:            workers,
		Seed:               cmd.Seed,
	})
}

// ImportPriceHistory 从 CSV 文件导入历史价格。
func (c *PricingCommandService) ImportPriceHistory(ctx context.Context, cmd ImportPriceHistoryCommand) (*ImportResultDTO, error) {
	if cmd.Symbol == "" {
		return nil, domain.ErrSymbolRequired
	}
	if cmd.Source == "" {
		cmd.Source = "csv"
	}

	history, err := c.source.Load(ctx, cmd.Path)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	prices := make([]*domain.HistoricalPrice, 0, len(history.Prices))
	for _, p := range history.Prices {
		prices = append(prices, &domain.HistoricalPrice{
			Symbol:     cmd.Symbol,
			Price:      p,
			Source:     cmd.Source,
			ObservedAt: now,
		})
	}
	if err := c.historyRepo.SavePrices(ctx, prices); err != nil {
		return nil, err
	}

	if c.publisher != nil {
		_ = c.publisher.Publish(ctx, domain.PriceHistoryImportedEventType, cmd.Symbol, domain.PriceHistoryImportedEvent{
			Symbol:     cmd.Symbol,
			Count:      len(prices),
			Skipped:    history.Skipped,
			Source:     cmd.Source,
			ImportedAt: now.Unix(),
			OccurredOn: now,
		})
	}

	logging.Info(ctx, "price history imported",
		"symbol", cmd.Symbol, "count", len(prices), "skipped", history.Skipped, "source", cmd.Source)

	return &ImportResultDTO{
		Symbol:  cmd.Symbol,
		Count:   len(prices),
		Skipped: history.Skipped,
		Source:  cmd.Source,
	}, nil
}

// RecordMarketPrice 记录一条实时行情并触发异步重定价。
// 入库同步完成, 重定价提交到 worker 池, 不阻塞行情消费。
func (c *PricingCommandService) RecordMarketPrice(ctx context.Context, symbol string, price float64, observedAt time.Time) error {
	if symbol == "" {
		return domain.ErrSymbolRequired
	}
	// 波动率估计假定价格序列严格为正, 非正观测在入口拒绝。
	if price <= 0 {
		return domain.ErrInvalidSpot
	}

	record := &domain.HistoricalPrice{
		Symbol:     symbol,
		Price:      price,
		Source:     "market.price",
		ObservedAt: observedAt,
	}
	if err := c.historyRepo.SavePrice(ctx, record); err != nil {
		return err
	}

	if c.pool == nil {
		return nil
	}
	task := func(taskCtx context.Context) {
		if _, err := c.PriceFromHistory(taskCtx, PriceFromHistoryCommand{Symbol: symbol}); err != nil {
			logging.Error(taskCtx, "async repricing failed", "symbol", symbol, "error", err)
		}
	}
	if err := c.pool.TrySubmit(task); err != nil {
		// 池满时丢弃本次重定价, 下一条行情会再次触发。
		logging.Warn(ctx, "repricing task dropped", "symbol", symbol, "error", err)
	}
	return nil
}

// compute 按模型分派计算。蒙特卡洛路径走并行引擎, 闭式解用于交叉校验。
func (c *PricingCommandService) compute(cmd PriceOptionCommand) (*domain.SimulationResult, error) {
	params := domain.PricingParameters{
		Spot:         cmd.Spot,
		Strike:       cmd.Strike,
		RiskFreeRate: cmd.RiskFreeRate,
		Volatility:   cmd.Volatility,
		Maturity:     cmd.Maturity,
		SampleCount:  cmd.SampleCount,
		Workers:      cmd.Workers,
		Seed:         cmd.Seed,
	}

	switch cmd.Model {
	case domain.ModelMonteCarlo:
		return domain.RunSimulation(params)
	case domain.ModelBlackScholes:
		price, err := domain.BlackScholesPrice(cmd.Spot, cmd.Strike, cmd.RiskFreeRate, cmd.Volatility, cmd.Maturity)
		if err != nil {
			return nil, err
		}
		// 闭式解没有抽样误差, 终端均价取风险中性期望 S·e^{rT}。
		return &domain.SimulationResult{
			Price:                price,
			AverageTerminalPrice: cmd.Spot * math.Exp(cmd.RiskFreeRate*cmd.Maturity),
			ConfidenceLow:        price,
			ConfidenceHigh:       price,
		}, nil
	default:
		return nil, domain.ErrUnknownModel
	}
}

// invalidateLatest 新定价落库后失效最新记录缓存。
func (c *PricingCommandService) invalidateLatest(ctx context.Context, symbol string) {
	if c.localCache == nil {
		return
	}
	if err := c.localCache.Delete(ctx, latestRunKey(symbol)); err != nil {
		logging.Warn(ctx, "failed to invalidate latest run cache", "symbol", symbol, "error", err)
	}
}
