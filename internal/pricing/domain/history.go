// 包 期权定价服务的领域模型: 蒙特卡洛模拟引擎、历史波动率估计与定价记录。
package domain

import (
	"context"
	"time"
)

// HistoricalPrice 单条历史价格观测。
type HistoricalPrice struct {
	ID         uint      `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Symbol     string    `json:"symbol"`
	Price      float64   `json:"price"`
	Source     string    `json:"source"` // csv / market.price 等
	ObservedAt time.Time `json:"observed_at"`
}

// PriceHistory 某一标的按时间升序排列的价格序列 (最早的在前)。
type PriceHistory struct {
	Symbol  string
	Prices  []float64
	Skipped int // 加载时无法解析被跳过的行数, 仅外部来源填充
}

// Len 价格观测数量。
func (h *PriceHistory) Len() int { return len(h.Prices) }

// Spot 以最近一次观测价作为现价。序列为空时返回 0, 由调用方处理。
func (h *PriceHistory) Spot() float64 {
	if len(h.Prices) == 0 {
		return 0
	}
	return h.Prices[len(h.Prices)-1]
}

// PriceHistorySource 外部价格序列来源 (如 CSV 文件)。
type PriceHistorySource interface {
	Load(ctx context.Context, path string) (*PriceHistory, error)
}
