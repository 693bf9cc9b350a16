package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// 定价模型名称
const (
	ModelMonteCarlo   = "MonteCarlo"   // 并行蒙特卡洛模拟
	ModelBlackScholes = "BlackScholes" // 闭式解, 用于交叉校验
)

// 默认参数。回退波动率是一个显式命名值而非隐藏的魔法常量, 便于测试直接断言。
const (
	DefaultVolatility   = 0.20      // 历史数据不足时的回退年化波动率
	DefaultRiskFreeRate = 0.05      // 按历史定价时缺省的无风险利率
	DefaultMaturity     = 1.0       // 按历史定价时缺省的到期时间 (年)
	DefaultSampleCount  = 1_000_000 // 缺省模拟路径数
	TradingDaysPerYear  = 252.0     // 年化换算用交易日数
)

// ConfidenceZ 95% 置信区间对应的正态分位数。
const ConfidenceZ = 1.96

// PricingParameters 单次模拟的全部输入。
// 运行期间所有字段只读, worker 之间不共享任何可变状态。
type PricingParameters struct {
	Spot         float64 // 标的现价 S0
	Strike       float64 // 执行价 K, 不做约束 (调用方可按平值策略取 K = S0)
	RiskFreeRate float64 // 无风险利率 r (连续复利, 年化)
	Volatility   float64 // 年化波动率 σ, 0 为合法输入 (退化为确定性漂移)
	Maturity     float64 // 到期时间 T (年)
	SampleCount  int64   // 独立模拟路径数 N, 可以达到数十亿
	Workers      int     // 并行 worker 数量, <=0 时取可用核数
	Seed         int64   // 基础随机种子, 0 表示按运行启动时间播种
}

// Validate 在进入并行阶段之前拒绝非法参数, 避免统计阶段出现除零。
func (p PricingParameters) Validate() error {
	switch {
	case p.Spot <= 0:
		return ErrInvalidSpot
	case p.Maturity <= 0:
		return ErrInvalidMaturity
	case p.Volatility < 0:
		return ErrNegativeVolatility
	case p.SampleCount <= 0:
		return ErrInvalidSampleCount
	}
	return nil
}

// SimulationResult 一次完整模拟运行的输出, 构造后不再修改。
type SimulationResult struct {
	Price                float64       // 贴现后的期望收益, 即公允价值估计
	StandardError        float64       // 价格估计的标准误 (同单位)
	AverageTerminalPrice float64       // 模拟终端价格均值, 用于漂移诊断
	ConfidenceLow        float64       // 95% 置信区间下界 Price - 1.96*SE
	ConfidenceHigh       float64       // 95% 置信区间上界 Price + 1.96*SE
	SampleCount          int64         // 实际模拟的路径数
	Workers              int           // 参与计算的 worker 数
	Elapsed              time.Duration // 模拟耗时
	Throughput           float64       // 每秒模拟路径数
}

// PricingRun 定价运行记录实体, 完整回显输入参数与统计输出。
type PricingRun struct {
	ID                 uint            `json:"id"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Symbol             string          `json:"symbol"`
	Model              string          `json:"model"`
	Spot               decimal.Decimal `json:"spot"`
	Strike             decimal.Decimal `json:"strike"`
	RiskFreeRate       float64         `json:"risk_free_rate"`
	Volatility         float64         `json:"volatility"`
	VolatilityDegraded bool            `json:"volatility_degraded"` // 波动率来自回退常量
	Maturity           float64         `json:"maturity"`
	SampleCount        int64           `json:"sample_count"`
	Workers            int             `json:"workers"`
	Price              decimal.Decimal `json:"price"`
	StandardError      decimal.Decimal `json:"standard_error"`
	AverageTerminal    decimal.Decimal `json:"average_terminal"`
	ConfidenceLow      decimal.Decimal `json:"confidence_low"`
	ConfidenceHigh     decimal.Decimal `json:"confidence_high"`
	ElapsedMs          int64           `json:"elapsed_ms"`
	Throughput         float64         `json:"throughput"`
	CalculatedAt       int64           `json:"calculated_at"`
}
