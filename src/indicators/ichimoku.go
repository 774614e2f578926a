package indicators

import (
	"math"

	"dexbot/src/models"
)

// Ichimoku 一目均衡表 - 综合趋势与动量指标
type Ichimoku struct {
	TenkanPeriod  int // 转换线周期，通常为9
	KijunPeriod   int // 基准线周期，通常为26
	SenkouBPeriod int // 先行带B周期，通常为52
	Displacement  int // 云图前移位移，通常为26
}

// IchimokuResult 一目均衡表各分量序列（与输入K线对齐，未定义处为NaN）
type IchimokuResult struct {
	Tenkan  []float64 // 转换线
	Kijun   []float64 // 基准线
	SenkouA []float64 // 先行带A（前移）
	SenkouB []float64 // 先行带B（前移）
}

// NewIchimoku 创建一目均衡表指标（默认9/26/52/26）
func NewIchimoku() *Ichimoku {
	return &Ichimoku{TenkanPeriod: 9, KijunPeriod: 26, SenkouBPeriod: 52, Displacement: 26}
}

// Name 指标名称
func (ic *Ichimoku) Name() string { return "ichimoku" }

// midline 计算周期内最高/最低价中点线
func midline(highs, lows []float64, period int) []float64 {
	periodHigh := rollingMax(highs, period)
	periodLow := rollingMin(lows, period)
	result := make([]float64, len(highs))
	for i := range result {
		result[i] = (periodHigh[i] + periodLow[i]) / 2
	}
	return result
}

// shiftForward 序列整体前移displacement位，空出处为NaN
func shiftForward(values []float64, displacement int) []float64 {
	result := make([]float64, len(values))
	for i := range result {
		if i < displacement {
			result[i] = math.NaN()
			continue
		}
		result[i] = values[i-displacement]
	}
	return result
}

// Calculate 计算一目均衡表全部分量
func (ic *Ichimoku) Calculate(candles []*models.Candle) (*IchimokuResult, error) {
	if len(candles) < ic.SenkouBPeriod {
		return nil, ErrInsufficientData
	}

	highs := models.Highs(candles)
	lows := models.Lows(candles)

	tenkan := midline(highs, lows, ic.TenkanPeriod)
	kijun := midline(highs, lows, ic.KijunPeriod)

	senkouARaw := make([]float64, len(candles))
	for i := range senkouARaw {
		senkouARaw[i] = (tenkan[i] + kijun[i]) / 2
	}
	senkouA := shiftForward(senkouARaw, ic.Displacement)
	senkouB := shiftForward(midline(highs, lows, ic.SenkouBPeriod), ic.Displacement)

	return &IchimokuResult{Tenkan: tenkan, Kijun: kijun, SenkouA: senkouA, SenkouB: senkouB}, nil
}

// lastValid 返回序列最后一个非NaN值，无则返回NaN
func lastValid(values []float64) float64 {
	for i := len(values) - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) {
			return values[i]
		}
	}
	return math.NaN()
}

// Score 生成[-1,1]评分
// 三因子加权：转换线/基准线交叉±0.3 + 价格与云图位置±0.4 + 云图颜色±0.3；
// 云图尚无有效值时退化为单独的转换线/基准线交叉信号±0.5
func (ic *Ichimoku) Score(candles []*models.Candle) (float64, error) {
	result, err := ic.Calculate(candles)
	if err != nil {
		return 0, err
	}

	n := len(candles)
	currentPrice := candles[n-1].CloseFloat()

	currentTenkan := result.Tenkan[n-1]
	if math.IsNaN(currentTenkan) {
		currentTenkan = currentPrice
	}
	currentKijun := result.Kijun[n-1]
	if math.IsNaN(currentKijun) {
		currentKijun = currentPrice
	}

	senkouA := lastValid(result.SenkouA)
	senkouB := lastValid(result.SenkouB)

	// 前移后的云图还没有有效值，只用转换线/基准线交叉
	if math.IsNaN(senkouA) || math.IsNaN(senkouB) {
		if currentTenkan > currentKijun {
			return 0.5, nil
		}
		if currentTenkan < currentKijun {
			return -0.5, nil
		}
		return 0, nil
	}

	cloudTop := math.Max(senkouA, senkouB)
	cloudBottom := math.Min(senkouA, senkouB)
	bullishCloud := senkouA > senkouB

	score := 0.0

	// 1. 转换线/基准线交叉（权重0.3）
	if currentTenkan > currentKijun {
		score += 0.3
	} else if currentTenkan < currentKijun {
		score -= 0.3
	}

	// 2. 价格与云图位置（权重0.4）
	if currentPrice > cloudTop {
		score += 0.4
	} else if currentPrice < cloudBottom {
		score -= 0.4
	}

	// 3. 云图颜色（权重0.3）
	if bullishCloud {
		score += 0.3
	} else {
		score -= 0.3
	}

	return clamp(sanitize(score), -1, 1), nil
}
