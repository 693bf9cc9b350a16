package domain

import (
	"math"
	"math/rand"
	"runtime"
	"sync"
	"time"
)

// accumulator 每个 worker 私有的部分和, 只由所属 worker 写入,
// 在所有 worker 结束之后由调用方串行合并 (加法满足结合律, 合并顺序不影响结果)。
type accumulator struct {
	sumPayoff        float64 // Σ payoff
	sumPayoffSquared float64 // Σ payoff²
	sumTerminal      float64 // Σ S_T
}

// RunSimulation 在风险中性 GBM 模型下用蒙特卡洛模拟为欧式看涨期权定价。
//
// 阶段 A (并行): 每条路径独立抽取标准正态变量 Z, 计算终端价格
//
//	S_T = S0 * exp((r - 0.5σ²)T + σ√T·Z)
//
// 和收益 max(S_T - K, 0), 累加进所属 worker 的私有累加器。
// 阶段 B (串行): 单次屏障之后合并各 worker 的部分和并推导统计量。
// 收益方差使用 plug-in 估计 (Σx²/N - mean², 除以 N 而非 N-1),
// 与历史波动率估计的 Bessel 修正是两套有意区分的约定。
//
// 同一次运行内给定 Seed 与 Workers 时结果可复现; Seed 为 0 时按启动时间播种。
func RunSimulation(p PricingParameters) (*SimulationResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if int64(workers) > p.SampleCount {
		workers = int(p.SampleCount)
	}

	baseSeed := p.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	// 漂移项与扩散项在并行区之外算好, 路径内只剩一次 exp。
	drift := (p.RiskFreeRate - 0.5*p.Volatility*p.Volatility) * p.Maturity
	diffusion := p.Volatility * math.Sqrt(p.Maturity)

	start := time.Now()

	// 连续且互不重叠的路径区间分片, 余数全部归最后一个 worker。
	perWorker := p.SampleCount / int64(workers)
	remainder := p.SampleCount % int64(workers)

	accs := make([]accumulator, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		trials := perWorker
		if w == workers-1 {
			trials += remainder
		}
		wg.Add(1)
		go func(w int, trials int64) {
			defer wg.Done()
			// 每个 worker 持有独立的生成器, 种子经混合函数散开,
			// 保证任意两个 worker 的随机流互不相关也互不重叠。
			rng := rand.New(rand.NewSource(workerSeed(baseSeed, w)))
			var sumPayoff, sumPayoffSq, sumTerminal float64
			for i := int64(0); i < trials; i++ {
				z := rng.NormFloat64()
				terminal := p.Spot * math.Exp(drift+diffusion*z)
				payoff := terminal - p.Strike
				if payoff < 0 {
					payoff = 0
				}
				sumPayoff += payoff
				sumPayoffSq += payoff * payoff
				sumTerminal += terminal
			}
			accs[w] = accumulator{
				sumPayoff:        sumPayoff,
				sumPayoffSquared: sumPayoffSq,
				sumTerminal:      sumTerminal,
			}
		}(w, trials)
	}
	wg.Wait()

	var total accumulator
	for i := range accs {
		total.sumPayoff += accs[i].sumPayoff
		total.sumPayoffSquared += accs[i].sumPayoffSquared
		total.sumTerminal += accs[i].sumTerminal
	}

	elapsed := time.Since(start)

	n := float64(p.SampleCount)
	meanPayoff := total.sumPayoff / n
	variance := total.sumPayoffSquared/n - meanPayoff*meanPayoff
	if variance < 0 {
		// 收益几乎恒定时浮点舍入可能产生微小负值。
		variance = 0
	}
	discount := math.Exp(-p.RiskFreeRate * p.Maturity)
	price := meanPayoff * discount
	stderr := math.Sqrt(variance/n) * discount

	throughput := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		throughput = n / secs
	}

	return &SimulationResult{
		Price:                price,
		StandardError:        stderr,
		AverageTerminalPrice: total.sumTerminal / n,
		ConfidenceLow:        price - ConfidenceZ*stderr,
		ConfidenceHigh:       price + ConfidenceZ*stderr,
		SampleCount:          p.SampleCount,
		Workers:              workers,
		Elapsed:              elapsed,
		Throughput:           throughput,
	}, nil
}

// workerSeed 把基础种子和 worker 序号混合成互不相关的派生种子 (splitmix64 终混)。
func workerSeed(base int64, worker int) int64 {
	x := uint64(base) + uint64(worker)*0x9e3779b97f4a7c15
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}
