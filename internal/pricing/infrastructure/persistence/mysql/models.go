package mysql

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/optionpricer/internal/pricing/domain"
)

// PricingRunModel 定价运行记录数据库模型
type PricingRunModel struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
	Symbol             string    `gorm:"column:symbol;type:varchar(32);index;not null"`
	Model              string    `gorm:"column:model;type:varchar(32);not null"`
	Spot               string    `gorm:"column:spot;type:decimal(32,18);not null"`
	Strike             string    `gorm:"column:strike;type:decimal(32,18);not null"`
	RiskFreeRate       float64   `gorm:"column:risk_free_rate;type:decimal(10,8)"`
	Volatility         float64   `gorm:"column:volatility;type:decimal(10,8)"`
	VolatilityDegraded bool      `gorm:"column:volatility_degraded;not null;default:false"`
	Maturity           float64   `gorm:"column:maturity;type:decimal(10,6)"`
	SampleCount        int64     `gorm:"column:sample_count;type:bigint;not null"`
	Workers            int       `gorm:"column:workers;type:int"`
	Price              string    `gorm:"column:price;type:decimal(32,18);not null"`
	StandardError      string    `gorm:"column:standard_error;type:decimal(32,18)"`
	AverageTerminal    string    `gorm:"column:average_terminal;type:decimal(32,18)"`
	ConfidenceLow      string    `gorm:"column:confidence_low;type:decimal(32,18)"`
	ConfidenceHigh     string    `gorm:"column:confidence_high;type:decimal(32,18)"`
	ElapsedMs          int64     `gorm:"column:elapsed_ms;type:bigint"`
	Throughput         float64   `gorm:"column:throughput;type:double"`
	CalculatedAt       int64     `gorm:"column:calculated_at;type:bigint;index;not null"`
}

func (PricingRunModel) TableName() string { return "pricing_runs" }

// HistoricalPriceModel 历史价格观测数据库模型
type HistoricalPriceModel struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
	Symbol     string    `gorm:"column:symbol;type:varchar(32);index;not null"`
	Price      float64   `gorm:"column:price;type:decimal(20,8);not null"`
	Source     string    `gorm:"column:source;type:varchar(50)"`
	ObservedAt time.Time `gorm:"column:observed_at;index"`
}

func (HistoricalPriceModel) TableName() string { return "historical_prices" }

// mapping helpers

func toPricingRunModel(run *domain.PricingRun) *PricingRunModel {
	if run == nil {
		return nil
	}
	return &PricingRunModel{
		ID:                 run.ID,
		CreatedAt:          run.CreatedAt,
		UpdatedAt:          run.UpdatedAt,
		Symbol:             run.Symbol,
		Model:              run.Model,
		Spot:               run.Spot.String(),
		Strike:             run.Strike.String(),
		RiskFreeRate:       run.RiskFreeRate,
		Volatility:         run.Volatility,
		VolatilityDegraded: run.VolatilityDegraded,
		Maturity:           run.Maturity,
		SampleCount:        run.SampleCount,
		Workers:            run.Workers,
		Price:              run.Price.String(),
		StandardError:      run.StandardError.String(),
		AverageTerminal:    run.AverageTerminal.String(),
		ConfidenceLow:      run.ConfidenceLow.String(),
		ConfidenceHigh:     run.ConfidenceHigh.String(),
		ElapsedMs:          run.ElapsedMs,
		Throughput:         run.Throughput,
		CalculatedAt:       run.CalculatedAt,
	}
}

func toPricingRun(m *PricingRunModel) *domain.PricingRun {
	if m == nil {
		return nil
	}
	spot, _ := decimal.NewFromString(m.Spot)
	strike, _ := decimal.NewFromString(m.Strike)
	price, _ := decimal.NewFromString(m.Price)
	stderr, _ := decimal.NewFromString(m.StandardError)
	avgTerminal, _ := decimal.NewFromString(m.AverageTerminal)
	confLow, _ := decimal.NewFromString(m.ConfidenceLow)
	confHigh, _ := decimal.NewFromString(m.ConfidenceHigh)

	return &domain.PricingRun{
		ID:                 m.ID,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		Symbol:             m.Symbol,
		Model:              m.Model,
		Spot:               spot,
		Strike:             strike,
		RiskFreeRate:       m.RiskFreeRate,
		Volatility:         m.Volatility,
		VolatilityDegraded: m.VolatilityDegraded,
		Maturity:           m.Maturity,
		SampleCount:        m.SampleCount,
		Workers:            m.Workers,
		Price:              price,
		StandardError:      stderr,
		AverageTerminal:    avgTerminal,
		ConfidenceLow:      confLow,
		ConfidenceHigh:     confHigh,
		ElapsedMs:          m.ElapsedMs,
		Throughput:         m.Throughput,
		CalculatedAt:       m.CalculatedAt,
	}
}

func toHistoricalPriceModel(p *domain.HistoricalPrice) *HistoricalPriceModel {
	if p == nil {
		return nil
	}
	return &HistoricalPriceModel{
		ID:         p.ID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		Symbol:     p.Symbol,
		Price:      p.Price,
		Source:     p.Source,
		ObservedAt: p.ObservedAt,
	}
}

func toHistoricalPrice(m *HistoricalPriceModel) *domain.HistoricalPrice {
	if m == nil {
		return nil
	}
	return &domain.HistoricalPrice{
		ID:         m.ID,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		Symbol:     m.Symbol,
		Price:      m.Price,
		Source:     m.Source,
		ObservedAt: m.ObservedAt,
	}
}
