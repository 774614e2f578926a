package indicators

import (
	"math"

	"dexbot/src/models"
)

// ATR 平均真实波幅 - 衡量市场波动性
type ATR struct {
	Period int // 计算周期，通常为14
}

// NewATR 创建ATR指标（默认14周期）
func NewATR() *ATR {
	return &ATR{Period: 14}
}

// NewATRWithParams 按指定参数创建ATR指标
func NewATRWithParams(period int) *ATR {
	return &ATR{Period: period}
}

// Name 指标名称
func (a *ATR) Name() string { return "atr" }

// Calculate 计算ATR序列（真实波幅的EMA）
func (a *ATR) Calculate(candles []*models.Candle) ([]float64, error) {
	if a.Period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < a.Period {
		return nil, ErrInsufficientData
	}

	highs := models.Highs(candles)
	lows := models.Lows(candles)
	closes := models.Closes(candles)

	trueRange := make([]float64, len(candles))
	trueRange[0] = highs[0] - lows[0]
	for i := 1; i < len(candles); i++ {
		highLow := highs[i] - lows[i]
		highClose := math.Abs(highs[i] - closes[i-1])
		lowClose := math.Abs(lows[i] - closes[i-1])
		trueRange[i] = math.Max(highLow, math.Max(highClose, lowClose))
	}

	return emaSeries(trueRange, a.Period), nil
}

// VolatilityScore 归一化波动性评分
// ATR占价格百分比按典型区间1%~10%映射到[-1,1]
func (a *ATR) VolatilityScore(candles []*models.Candle) (float64, error) {
	atr, err := a.Calculate(candles)
	if err != nil {
		return 0, err
	}

	currentPrice := candles[len(candles)-1].CloseFloat()
	if currentPrice == 0 {
		return 0, ErrDegenerateInput
	}

	atrPercent := atr[len(atr)-1] / currentPrice * 100
	normalized := (atrPercent - 1) / 9
	return clamp(sanitize(normalized), -1, 1), nil
}

// Score Scorer接口实现，等同于VolatilityScore
// 注意：ATR不参与加权综合评分，仅用于波动性观测
func (a *ATR) Score(candles []*models.Candle) (float64, error) {
	return a.VolatilityScore(candles)
}
