package application

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/wyfcoding/pkg/metrics"
)

// PricingMetrics 定价服务业务指标。
type PricingMetrics struct {
	runsTotal     *prometheus.CounterVec   // 维度: model, status
	runDuration   *prometheus.HistogramVec // 模拟耗时分布
	runThroughput *prometheus.HistogramVec // 每秒路径数分布
}

// NewPricingMetrics 注册定价业务指标。m 为 nil 时返回 nil, 记录方法自动退化为空操作。
func NewPricingMetrics(m *metrics.Metrics) *PricingMetrics {
	if m == nil {
		return nil
	}
	return &PricingMetrics{
		runsTotal: m.NewCounterVec(&prometheus.CounterOpts{
			Name: "pricing_runs_total",
			Help: "Total number of pricing runs",
		}, []string{"model", "status"}),
		runDuration: m.NewHistogramVec(&prometheus.HistogramOpts{
			Name:    "pricing_simulation_duration_seconds",
			Help:    "Wall time of a single pricing run in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
		}, []string{"model"}),
		runThroughput: m.NewHistogramVec(&prometheus.HistogramOpts{
			Name:    "pricing_simulation_paths_per_second",
			Help:    "Simulated paths per second for a single run",
			Buckets: prometheus.ExponentialBuckets(10_000, 4, 10),
		}, []string{"model"}),
	}
}

// RecordRun 记录一次定价运行。吞吐量仅在成功且非零时上报。
func (pm *PricingMetrics) RecordRun(model, status string, elapsed time.Duration, throughput float64) {
	if pm == nil {
		return
	}
	pm.runsTotal.WithLabelValues(model, status).Inc()
	if status != "success" {
		return
	}
	pm.runDuration.WithLabelValues(model).Observe(elapsed.Seconds())
	if throughput > 0 {
		pm.runThroughput.WithLabelValues(model).Observe(throughput)
	}
}
