package indicators

import (
	"dexbot/src/models"
)

// BollingerBands 布林道指标
type BollingerBands struct {
	Period     int     // 计算周期，通常为20
	Multiplier float64 // 标准差倍数，通常为2
}

// BollingerBandsResult 布林道计算结果（最后一根K线处的三条轨道）
type BollingerBandsResult struct {
	UpperBand  float64 // 上轨
	MiddleBand float64 // 中轨（移动平均线）
	LowerBand  float64 // 下轨
	Price      float64 // 当前价格
}

// NewBollingerBands 创建布林道指标（默认20周期，2倍标准差）
func NewBollingerBands() *BollingerBands {
	return &BollingerBands{Period: 20, Multiplier: 2.0}
}

// NewBollingerBandsWithParams 按指定参数创建布林道指标
func NewBollingerBandsWithParams(period int, multiplier float64) *BollingerBands {
	return &BollingerBands{Period: period, Multiplier: multiplier}
}

// Name 指标名称
func (bb *BollingerBands) Name() string { return "bb" }

// Calculate 计算最后一根K线处的布林道轨道（样本标准差）
func (bb *BollingerBands) Calculate(candles []*models.Candle) (*BollingerBandsResult, error) {
	if bb.Period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < bb.Period {
		return nil, ErrInsufficientData
	}

	closes := models.Closes(candles)
	window := closes[len(closes)-bb.Period:]

	middle := sma(window)
	std := stdDevSample(window)

	return &BollingerBandsResult{
		UpperBand:  middle + std*bb.Multiplier,
		MiddleBand: middle,
		LowerBand:  middle - std*bb.Multiplier,
		Price:      closes[len(closes)-1],
	}, nil
}

// Score 生成[-1,1]评分
// 价格低于下轨=+1（超卖），高于上轨=-1（超买），
// 中间按 -(价格-中轨)/(上轨-中轨) 插值；轨道收窄到退化时返回0避免除零
func (bb *BollingerBands) Score(candles []*models.Candle) (float64, error) {
	result, err := bb.Calculate(candles)
	if err != nil {
		return 0, err
	}

	bandWidth := result.UpperBand - result.MiddleBand
	var score float64
	switch {
	case bandWidth < 0.0001:
		score = 0
	case result.Price < result.LowerBand:
		score = 1.0
	case result.Price > result.UpperBand:
		score = -1.0
	default:
		score = -(result.Price - result.MiddleBand) / bandWidth
	}
	return clamp(sanitize(score), -1, 1), nil
}

// Vote 离散信号：价格跌破下轨=1，突破上轨=-1，否则0
func (bb *BollingerBands) Vote(candles []*models.Candle) (int, error) {
	result, err := bb.Calculate(candles)
	if err != nil {
		return 0, err
	}

	if result.Price < result.LowerBand {
		return 1, nil
	}
	if result.Price > result.UpperBand {
		return -1, nil
	}
	return 0, nil
}
