package domain

import "math"

// EstimateVolatility 根据按时间升序排列的历史价格序列估算年化波动率。
//
// 算法: 相邻价格的对数收益 u_i = ln(P_i / P_{i-1}), 样本均值,
// Bessel 修正的样本方差 (除以 n-1), 再乘以 √252 年化。
// 价格不足两个时返回回退常量 DefaultVolatility 并置 degraded 标记,
// 这是有意的优雅降级策略而不是错误。
// 只有一个对数收益时 n-1 为零, 该边界显式定义为波动率 0。
// 输入中的零价或负价属于调用方数据校验的职责, 此处不做防御。
func EstimateVolatility(prices []float64) (vol float64, degraded bool) {
	if len(prices) < 2 {
		return DefaultVolatility, true
	}

	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns = append(returns, math.Log(prices[i]/prices[i-1]))
	}
	if len(returns) < 2 {
		return 0, false
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var sumSq float64
	for _, r := range returns {
		d := r - mean
		sumSq += d * d
	}
	variance := sumSq / float64(len(returns)-1)

	return math.Sqrt(variance) * math.Sqrt(TradingDaysPerYear), false
}
