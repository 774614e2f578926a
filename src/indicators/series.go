package indicators

import (
	"math"

	"dexbot/src/models"
)

// Scorer 指标评分接口 - 输入K线序列，输出[-1,1]的有界评分
// 数据不足返回 ErrInsufficientData，调用方按中性（0）处理
type Scorer interface {
	Name() string
	Score(candles []*models.Candle) (float64, error)
}

// Voter 投票接口 - 输出离散信号：1=买入, -1=卖出, 0=持有
// 用于手动策略的简单投票聚合
type Voter interface {
	Name() string
	Vote(candles []*models.Candle) (int, error)
}

// sma 简单移动平均
func sma(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// emaSeries 指数移动平均序列（span语义: alpha = 2/(span+1)，以首值为种子）
func emaSeries(values []float64, span int) []float64 {
	result := make([]float64, len(values))
	if len(values) == 0 {
		return result
	}
	alpha := 2.0 / float64(span+1)
	result[0] = values[0]
	for i := 1; i < len(values); i++ {
		result[i] = values[i]*alpha + result[i-1]*(1-alpha)
	}
	return result
}

// stdDevSample 样本标准差（除以 n-1）
func stdDevSample(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := sma(values)
	sum := 0.0
	for _, v := range values {
		diff := v - mean
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// stdDevPopulation 总体标准差（除以 n）
func stdDevPopulation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := sma(values)
	sum := 0.0
	for _, v := range values {
		diff := v - mean
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values)))
}

// clamp 将值限制在[lo, hi]区间
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sanitize 将NaN/Inf归零，其余原样返回
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// rollingMax 前period个值（含当前）的最大值序列，窗口不足处为NaN
func rollingMax(values []float64, period int) []float64 {
	result := make([]float64, len(values))
	for i := range values {
		if i < period-1 {
			result[i] = math.NaN()
			continue
		}
		max := values[i-period+1]
		for j := i - period + 2; j <= i; j++ {
			if values[j] > max {
				max = values[j]
			}
		}
		result[i] = max
	}
	return result
}

// rollingMin 前period个值（含当前）的最小值序列，窗口不足处为NaN
func rollingMin(values []float64, period int) []float64 {
	result := make([]float64, len(values))
	for i := range values {
		if i < period-1 {
			result[i] = math.NaN()
			continue
		}
		min := values[i-period+1]
		for j := i - period + 2; j <= i; j++ {
			if values[j] < min {
				min = values[j]
			}
		}
		result[i] = min
	}
	return result
}

// rollingMean 滚动均值序列，窗口不足处为NaN；NaN输入向后传播
func rollingMean(values []float64, period int) []float64 {
	result := make([]float64, len(values))
	for i := range values {
		if i < period-1 {
			result[i] = math.NaN()
			continue
		}
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += values[j]
		}
		result[i] = sum / float64(period)
	}
	return result
}
