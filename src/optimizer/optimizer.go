package optimizer

import (
	"context"
	"fmt"
	"math"

	"github.com/xpwu/go-log/log"

	"dexbot/src/backtest"
	"dexbot/src/models"
	"dexbot/src/signal"
	"dexbot/src/timeframes"
)

// Optimization 优化结果：最优参数集、其适应度与对应回测结果
type Optimization struct {
	BestParams *signal.ParameterSet
	BestScore  float64
	BestResult *backtest.Result
}

// Optimizer 参数优化器 - 在固定离散空间上做穷举网格搜索
type Optimizer struct {
	simulator *backtest.Simulator
}

// NewOptimizer 创建参数优化器
func NewOptimizer(tf timeframes.Timeframe) *Optimizer {
	return &Optimizer{simulator: backtest.NewSimulator(tf)}
}

// Combinations 生成网格搜索的参数组合
// 3个执行阈值 × 3个置信阈值 × 3组手选权重 = 27种组合，生成顺序固定以保证可复现
func Combinations() []*signal.ParameterSet {
	executionThresholds := []float64{0.5, 0.6, 0.7}
	confidenceThresholds := []float64{0.6, 0.7, 0.8}

	weightSets := []map[string]float64{
		{"rsi": 1.0, "macd": 1.0, "bb": 1.0, "ma_cross": 1.0, "stoch_rsi": 1.0, "obv": 1.0, "roc": 1.0, "ichimoku": 1.0},
		{"rsi": 1.2, "macd": 1.3, "bb": 0.8, "ma_cross": 1.2, "stoch_rsi": 1.1, "obv": 1.0, "roc": 1.2, "ichimoku": 1.0},
		{"rsi": 0.8, "macd": 0.9, "bb": 1.3, "ma_cross": 0.8, "stoch_rsi": 1.2, "obv": 0.9, "roc": 0.9, "ichimoku": 1.1},
	}

	combinations := make([]*signal.ParameterSet, 0, len(executionThresholds)*len(confidenceThresholds)*len(weightSets))
	for _, execThresh := range executionThresholds {
		for _, confThresh := range confidenceThresholds {
			for _, weights := range weightSets {
				combinations = append(combinations, &signal.ParameterSet{
					ExecutionThreshold:  execThresh,
					ConfidenceThreshold: confThresh,
					Weights:             weights,
				})
			}
		}
	}
	return combinations
}

// Optimize 网格搜索最优参数
// 逐组合回测并按适应度排序，平局保留先出现的组合（按生成顺序，与完成顺序无关）
func (o *Optimizer) Optimize(ctx context.Context, candles []*models.Candle, accumulatingBase bool) (*Optimization, error) {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("Optimizer")

	if len(candles) < signal.MinCandles {
		return nil, fmt.Errorf("insufficient candles for optimization: %d, need %d", len(candles), signal.MinCandles)
	}

	combinations := Combinations()
	logger.Info(fmt.Sprintf("开始参数优化: 测试%d种参数组合", len(combinations)))

	bestScore := math.Inf(-1)
	var bestParams *signal.ParameterSet
	var bestResult *backtest.Result

	for i, params := range combinations {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		result := o.simulator.Run(candles, params, accumulatingBase)
		score := Fitness(result)

		if score > bestScore {
			bestScore = score
			bestParams = params
			bestResult = result
		}

		if (i+1)%10 == 0 {
			logger.Debug(fmt.Sprintf("已测试 %d/%d 组合", i+1, len(combinations)))
		}
	}

	logger.Info(fmt.Sprintf("优化完成: 最优适应度=%.4f, 胜率=%.1f%%, 总收益=%.2f%%",
		bestScore, bestResult.WinRatePercent, bestResult.TotalReturnPercent))

	return &Optimization{BestParams: bestParams, BestScore: bestScore, BestResult: bestResult}, nil
}

// Fitness 适应度评分
// 加权组合：胜率30% + 总收益30% + 夏普比率20% + 低回撤20%
func Fitness(result *backtest.Result) float64 {
	winRate := result.WinRatePercent / 100
	totalReturn := clamp(result.TotalReturnPercent/100, -1, 2)
	sharpe := clamp(result.SharpeRatio/2, -2, 2)
	drawdownPenalty := 1 - result.MaxDrawdownPercent/100

	return winRate*0.3 + totalReturn*0.3 + sharpe*0.2 + drawdownPenalty*0.2
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
