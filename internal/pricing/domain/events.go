package domain

import "time"

const (
	OptionPricedEventType         = "OptionPriced"
	PriceHistoryImportedEventType = "PriceHistoryImported"
	VolatilityEstimatedEventType  = "VolatilityEstimated"
)

// OptionPricedEvent 期权定价完成事件
type OptionPricedEvent struct {
	Symbol             string    `json:"symbol"`
	Model              string    `json:"model"`
	Spot               float64   `json:"spot"`
	Strike             float64   `json:"strike"`
	RiskFreeRate       float64   `json:"risk_free_rate"`
	Volatility         float64   `json:"volatility"`
	VolatilityDegraded bool      `json:"volatility_degraded"`
	Maturity           float64   `json:"maturity"`
	SampleCount        int64     `json:"sample_count"`
	Price              float64   `json:"price"`
	StandardError      float64   `json:"standard_error"`
	ConfidenceLow      float64   `json:"confidence_low"`
	ConfidenceHigh     float64   `json:"confidence_high"`
	CalculatedAt       int64     `json:"calculated_at"`
	OccurredOn         time.Time `json:"occurred_on"`
}

// PriceHistoryImportedEvent 历史价格导入完成事件
type PriceHistoryImportedEvent struct {
	Symbol     string    `json:"symbol"`
	Count      int       `json:"count"`
	Skipped    int       `json:"skipped"`
	Source     string    `json:"source"`
	ImportedAt int64     `json:"imported_at"`
	OccurredOn time.Time `json:"occurred_on"`
}

// VolatilityEstimatedEvent 波动率估计完成事件
type VolatilityEstimatedEvent struct {
	Symbol      string    `json:"symbol"`
	Volatility  float64   `json:"volatility"`
	Degraded    bool      `json:"degraded"`
	SampleSize  int       `json:"sample_size"`
	EstimatedAt int64     `json:"estimated_at"`
	OccurredOn  time.Time `json:"occurred_on"`
}
