// Package marketdata 定价服务的外部价格数据接入: CSV 文件加载。
package marketdata

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/wyfcoding/optionpricer/internal/pricing/domain"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/xerrors"
)

// CSVHistorySource 从本地 CSV 文件加载历史价格序列。
// 每行取最后一列作为价格, 行序即时间序 (最早的在前)。
type CSVHistorySource struct{}

// NewCSVHistorySource 构造函数。
func NewCSVHistorySource() *CSVHistorySource {
	return &CSVHistorySource{}
}

// Load 实现 domain.PriceHistorySource。
// 波动率估计要求价格严格为正, 无法解析或非正的行跳过并计数。
func (s *CSVHistorySource) Load(ctx context.Context, path string) (*domain.PriceHistory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.ErrInvalidArg, "open history file")
	}
	defer f.Close()

	history, err := parsePrices(f)
	if err != nil {
		return nil, err
	}

	logging.Info(ctx, "price history loaded",
		"path", path, "count", len(history.Prices), "skipped", history.Skipped)
	return history, nil
}

func parsePrices(r io.Reader) (*domain.PriceHistory, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // 列数不固定
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.ErrInvalidArg, "read history file")
	}

	history := &domain.PriceHistory{}
	for _, row := range records {
		if len(row) == 0 {
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(row[len(row)-1]), 64)
		if err != nil || price <= 0 {
			// 表头与坏行不中断导入。
			history.Skipped++
			continue
		}
		history.Prices = append(history.Prices, price)
	}
	if len(history.Prices) == 0 {
		return nil, xerrors.ErrEmptyData
	}
	return history, nil
}
