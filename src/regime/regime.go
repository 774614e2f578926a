package regime

import (
	"math"

	"dexbot/src/models"
)

// Regime 市场状态枚举
type Regime string

const (
	TrendingUp     Regime = "trending_up"     // 上升趋势
	TrendingDown   Regime = "trending_down"   // 下降趋势
	Ranging        Regime = "ranging"         // 区间震荡
	HighVolatility Regime = "high_volatility" // 高波动
	Unknown        Regime = "unknown"         // 数据不足，无法判断
)

// String 返回字符串表示
func (r Regime) String() string {
	return string(r)
}

// Detector 市场状态检测器
type Detector struct {
	LookbackPeriod int // 分析窗口K线数量，默认50
}

// NewDetector 创建市场状态检测器（默认50根K线窗口）
func NewDetector() *Detector {
	return &Detector{LookbackPeriod: 50}
}

// Detect 检测当前市场状态
// 分类顺序：高波动 > 强趋势 > 紧密震荡 > 弱趋势 > 震荡兜底
func (d *Detector) Detect(candles []*models.Candle) Regime {
	if len(candles) < d.LookbackPeriod {
		return Unknown
	}

	recent := candles[len(candles)-d.LookbackPeriod:]
	closes := models.Closes(recent)

	trendStrength := d.trendStrength(closes)
	volatility := d.volatility(closes)
	rangeTightness := d.rangeTightness(closes)

	switch {
	case volatility > 0.7:
		return HighVolatility
	case math.Abs(trendStrength) > 0.6:
		if trendStrength > 0 {
			return TrendingUp
		}
		return TrendingDown
	case rangeTightness > 0.6:
		return Ranging
	case math.Abs(trendStrength) > 0.3:
		// 混合信号 - 有趋势就按趋势算
		if trendStrength > 0 {
			return TrendingUp
		}
		return TrendingDown
	default:
		return Ranging
	}
}

// trendStrength 趋势强度 ∈ [-1,1]
// 收盘价对序号做最小二乘回归，斜率按均价归一化过tanh，再乘以R²，
// 噪声大的趋势即使斜率大也会被压低
func (d *Detector) trendStrength(closes []float64) float64 {
	n := len(closes)
	if n < 10 {
		return 0
	}

	xMean := float64(n-1) / 2
	yMean := 0.0
	for _, y := range closes {
		yMean += y
	}
	yMean /= float64(n)

	numerator, denominator := 0.0, 0.0
	for i, y := range closes {
		dx := float64(i) - xMean
		numerator += dx * (y - yMean)
		denominator += dx * dx
	}
	if denominator == 0 {
		return 0
	}
	slope := numerator / denominator

	// R²衡量回归拟合优度
	intercept := yMean - slope*xMean
	ssRes, ssTot := 0.0, 0.0
	for i, y := range closes {
		pred := slope*float64(i) + intercept
		ssRes += (y - pred) * (y - pred)
		ssTot += (y - yMean) * (y - yMean)
	}
	rSquared := 0.0
	if ssTot != 0 {
		rSquared = 1 - ssRes/ssTot
	}

	if yMean == 0 {
		return 0
	}
	slopePercent := slope / yMean * 100
	strength := math.Tanh(slopePercent) * rSquared

	return clamp(strength, -1, 1)
}

// volatility 归一化波动性 ∈ [0,1]
// 期间收益率标准差，按典型上限0.10（10%）归一化
func (d *Detector) volatility(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	// 样本标准差
	stdDev := math.Sqrt(variance / float64(len(returns)-1))

	return clamp(stdDev/0.10, 0, 1)
}

// rangeTightness 区间紧密度 ∈ [0,1]
// 60/40加权组合：价格穿越中线的频率 + 反转的高低价振幅占均价百分比（上限15%）
func (d *Detector) rangeTightness(closes []float64) float64 {
	n := len(closes)
	if n < 10 {
		return 0
	}

	min, max := closes[0], closes[0]
	mean := 0.0
	for _, c := range closes {
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
		mean += c
	}
	mean /= float64(n)
	if mean == 0 {
		return 0
	}

	rangePercent := (max - min) / mean * 100

	// 统计价格穿越中线的次数
	middle := (max + min) / 2
	crosses := 0
	prevAbove := closes[0] > middle
	for _, c := range closes[1:] {
		above := c > middle
		if above != prevAbove {
			crosses++
		}
		prevAbove = above
	}

	crossScore := math.Min(float64(crosses)/float64(n), 1.0)
	rangeScore := 1 - math.Min(rangePercent/15, 1.0)

	return clamp(crossScore*0.6+rangeScore*0.4, 0, 1)
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
