package indicators

import (
	"dexbot/src/models"
)

// MACrossover 均线交叉指标
type MACrossover struct {
	ShortPeriod int // 短周期均线，通常为20
	LongPeriod  int // 长周期均线，通常为50
}

// NewMACrossover 创建均线交叉指标（默认20/50）
func NewMACrossover() *MACrossover {
	return &MACrossover{ShortPeriod: 20, LongPeriod: 50}
}

// NewMACrossoverWithParams 按指定参数创建均线交叉指标
func NewMACrossoverWithParams(short, long int) *MACrossover {
	return &MACrossover{ShortPeriod: short, LongPeriod: long}
}

// Name 指标名称
func (ma *MACrossover) Name() string { return "ma_cross" }

// Calculate 计算短/长均线序列（窗口不足处为NaN）
func (ma *MACrossover) Calculate(candles []*models.Candle) (shortMA, longMA []float64, err error) {
	if ma.ShortPeriod <= 0 || ma.LongPeriod <= 0 {
		return nil, nil, ErrInvalidPeriod
	}
	if len(candles) < ma.LongPeriod {
		return nil, nil, ErrInsufficientData
	}

	closes := models.Closes(candles)
	return rollingMean(closes, ma.ShortPeriod), rollingMean(closes, ma.LongPeriod), nil
}

// Score 生成[-1,1]评分：最后一根K线发生金叉=+1，死叉=-1，其余为0
// 交叉事件型信号，不做连续插值
func (ma *MACrossover) Score(candles []*models.Candle) (float64, error) {
	vote, err := ma.Vote(candles)
	if err != nil {
		return 0, err
	}
	return float64(vote), nil
}

// Vote 离散信号：短均线上穿长均线=1（金叉），下穿=-1（死叉），否则0
func (ma *MACrossover) Vote(candles []*models.Candle) (int, error) {
	if len(candles) < ma.LongPeriod+1 {
		return 0, ErrInsufficientData
	}

	shortMA, longMA, err := ma.Calculate(candles)
	if err != nil {
		return 0, err
	}

	n := len(shortMA)
	curShort, curLong := shortMA[n-1], longMA[n-1]
	prevShort, prevLong := shortMA[n-2], longMA[n-2]

	if curShort > curLong && prevShort < prevLong {
		return 1, nil
	}
	if curShort < curLong && prevShort > prevLong {
		return -1, nil
	}
	return 0, nil
}
