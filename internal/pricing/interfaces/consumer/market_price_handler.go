package consumer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/optionpricer/internal/pricing/application"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
)

// MarketPriceHandler 消费行情消息, 驱动历史价格入库与异步重定价。
type MarketPriceHandler struct {
	command *application.PricingCommandService
}

func NewMarketPriceHandler(command *application.PricingCommandService) *MarketPriceHandler {
	return &MarketPriceHandler{command: command}
}

// HandleMarketPrice 处理一条 market.price 行情消息。
func (h *MarketPriceHandler) HandleMarketPrice(ctx context.Context, msg kafkago.Message) error {
	var event struct {
		Symbol    string `json:"symbol"`
		Price     string `json:"price"`
		Timestamp int64  `json:"timestamp"` // 毫秒
	}
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return err
	}

	price, err := decimal.NewFromString(event.Price)
	if event.Symbol == "" || err != nil || !price.IsPositive() {
		// 坏消息跳过而不是重试。
		slog.Warn("skipping invalid market price", "symbol", event.Symbol, "price", event.Price)
		return nil
	}

	observedAt := time.Now()
	if event.Timestamp > 0 {
		observedAt = time.UnixMilli(event.Timestamp)
	}

	slog.Info("handling market price event", "symbol", event.Symbol, "price", price.String())
	return h.command.RecordMarketPrice(ctx, event.Symbol, price.InexactFloat64(), observedAt)
}

func (h *MarketPriceHandler) Subscribe(ctx context.Context, consumer *kafka.Consumer) {
	consumer.Start(ctx, 1, h.HandleMarketPrice)
}
