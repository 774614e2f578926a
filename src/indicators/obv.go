package indicators

import (
	"math"

	"dexbot/src/models"
)

// OBV 能量潮指标 - 基于成交量的动量指标
type OBV struct {
	SignalPeriod int // 信号线EMA周期，通常为21
}

// NewOBV 创建OBV指标（默认21周期信号线）
func NewOBV() *OBV {
	return &OBV{SignalPeriod: 21}
}

// NewOBVWithParams 按指定参数创建OBV指标
func NewOBVWithParams(signalPeriod int) *OBV {
	return &OBV{SignalPeriod: signalPeriod}
}

// Name 指标名称
func (o *OBV) Name() string { return "obv" }

// Calculate 计算OBV累积序列
// 收盘价上涨加成交量，下跌减成交量，持平不变
func (o *OBV) Calculate(candles []*models.Candle) ([]float64, error) {
	if len(candles) == 0 {
		return nil, ErrInsufficientData
	}

	closes := models.Closes(candles)
	volumes := models.Volumes(candles)

	obv := make([]float64, len(candles))
	for i := 1; i < len(candles); i++ {
		switch {
		case closes[i] > closes[i-1]:
			obv[i] = obv[i-1] + volumes[i]
		case closes[i] < closes[i-1]:
			obv[i] = obv[i-1] - volumes[i]
		default:
			obv[i] = obv[i-1]
		}
	}
	return obv, nil
}

// Score 生成[-1,1]评分
// OBV与信号线交叉=±1，否则取最近5根K线的OBV斜率与信号线斜率归一化后的均值
func (o *OBV) Score(candles []*models.Candle) (float64, error) {
	obv, err := o.Calculate(candles)
	if err != nil {
		return 0, err
	}
	if len(obv) < o.SignalPeriod+5 {
		return 0, ErrInsufficientData
	}

	signal := emaSeries(obv, o.SignalPeriod)
	n := len(obv)

	currentOBV, currentSignal := obv[n-1], signal[n-1]
	prevOBV, prevSignal := obv[n-2], signal[n-2]

	// 交叉信号
	if currentOBV > currentSignal && prevOBV <= prevSignal {
		return 1.0, nil
	}
	if currentOBV < currentSignal && prevOBV >= prevSignal {
		return -1.0, nil
	}

	// 无交叉时看双线斜率
	obvSlope := (obv[n-1] - obv[n-5]) / 5
	signalSlope := (signal[n-1] - signal[n-5]) / 5

	maxSlope := math.Max(math.Abs(obvSlope), math.Max(math.Abs(signalSlope), 1))
	score := (obvSlope/maxSlope + signalSlope/maxSlope) / 2

	return clamp(sanitize(score), -1, 1), nil
}
