package application

import "github.com/wyfcoding/optionpricer/internal/pricing/domain"

// PriceOptionCommand 期权定价命令
type PriceOptionCommand struct {
	Symbol             string
	Model              string // MonteCarlo / BlackScholes, 空值取 MonteCarlo
	Spot               float64
	Strike             float64
	RiskFreeRate       float64
	Volatility         float64
	VolatilityDegraded bool // 波动率来自回退常量而非调用方
	Maturity           float64
	SampleCount        int64
	Workers            int
	Seed               int64
}

// PriceFromHistoryCommand 基于历史价格定价命令
type PriceFromHistoryCommand struct {
	Symbol       string
	Model        string
	Strike       float64 // 0 取平值 (执行价 = 现价)
	RiskFreeRate float64 // 0 取默认 5%
	Maturity     float64 // 0 取默认 1 年
	SampleCount  int64   // 0 取默认 100 万
	Workers      int
	Seed         int64
}

// ImportPriceHistoryCommand 导入历史价格命令
type ImportPriceHistoryCommand struct {
	Symbol string
	Path   string // CSV 文件路径
	Source string // 数据来源标识, 空值取 csv
}

// PricingRunDTO 定价运行记录 DTO
type PricingRunDTO struct {
	ID                 uint    `json:"id"`
	Symbol             string  `json:"symbol"`
	Model              string  `json:"model"`
	Spot               string  `json:"spot"`
	Strike             string  `json:"strike"`
	RiskFreeRate       float64 `json:"risk_free_rate"`
	Volatility         float64 `json:"volatility"`
	VolatilityDegraded bool    `json:"volatility_degraded"`
	Maturity           float64 `json:"maturity"`
	SampleCount        int64   `json:"sample_count"`
	Workers            int     `json:"workers"`
	Price              string  `json:"price"`
	StandardError      string  `json:"standard_error"`
	AverageTerminal    string  `json:"average_terminal"`
	ConfidenceLow      string  `json:"confidence_low"`
	ConfidenceHigh     string  `json:"confidence_high"`
	ElapsedMs          int64   `json:"elapsed_ms"`
	Throughput         float64 `json:"throughput"`
	CalculatedAt       int64   `json:"calculated_at"`
}

// ImportResultDTO 历史价格导入结果 DTO
type ImportResultDTO struct {
	Symbol  string `json:"symbol"`
	Count   int    `json:"count"`   // 成功入库的观测数
	Skipped int    `json:"skipped"` // 无法解析被跳过的行数
	Source  string `json:"source"`
}

// VolatilityDTO 波动率估计 DTO
type VolatilityDTO struct {
	Symbol     string  `json:"symbol"`
	Volatility float64 `json:"volatility"`
	Degraded   bool    `json:"degraded"` // 观测不足, 使用回退常量
	SampleSize int     `json:"sample_size"`
}

// HistoricalPriceDTO 历史价格观测 DTO
type HistoricalPriceDTO struct {
	Symbol     string  `json:"symbol"`
	Price      float64 `json:"price"`
	Source     string  `json:"source"`
	ObservedAt int64   `json:"observed_at"`
}

// toPricingRunDTO 领域实体转 DTO。
func toPricingRunDTO(run *domain.PricingRun) *PricingRunDTO {
	if run == nil {
		return nil
	}
	return &PricingRunDTO{
		ID:                 run.ID,
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
