package indicators

import (
	"dexbot/src/models"
)

// RSI 相对强弱指标
type RSI struct {
	Period        int     // 计算周期，通常为14
	BuyThreshold  float64 // 买入阈值，RSI低于此值视为超卖（默认30）
	SellThreshold float64 // 卖出阈值，RSI高于此值视为超买（默认70）
}

// NewRSI 创建RSI指标（默认参数：14周期，30/70阈值）
func NewRSI() *RSI {
	return &RSI{Period: 14, BuyThreshold: 30, SellThreshold: 70}
}

// NewRSIWithParams 按指定参数创建RSI指标
func NewRSIWithParams(period int, buyThreshold, sellThreshold float64) *RSI {
	return &RSI{Period: period, BuyThreshold: buyThreshold, SellThreshold: sellThreshold}
}

// Name 指标名称
func (r *RSI) Name() string { return "rsi" }

// Calculate 计算RSI序列
// 以period窗口的涨跌幅简单均值计算，窗口不足处为0
func (r *RSI) Calculate(candles []*models.Candle) ([]float64, error) {
	if r.Period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < r.Period+1 {
		return nil, ErrInsufficientData
	}

	closes := models.Closes(candles)
	result := make([]float64, len(closes))

	for i := r.Period; i < len(closes); i++ {
		result[i] = r.valueAt(closes, i)
	}
	return result, nil
}

// valueAt 计算第i根K线处的RSI值（使用其前period个涨跌幅）
func (r *RSI) valueAt(closes []float64, i int) float64 {
	gainSum, lossSum := 0.0, 0.0
	for j := i - r.Period; j < i; j++ {
		change := closes[j+1] - closes[j]
		if change > 0 {
			gainSum += change
		} else {
			lossSum -= change
		}
	}
	avgGain := gainSum / float64(r.Period)
	avgLoss := lossSum / float64(r.Period)

	// 没有下跌：有上涨则极度超买(100)，完全平盘记0
	if avgLoss == 0 {
		if avgGain > 0 {
			return 100
		}
		return 0
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// Score 生成[-1,1]评分
// RSI低于买入阈值=+1（超卖，买入），高于卖出阈值=-1（超买，卖出），
// 中间区间按 (50-rsi)/20 线性插值
func (r *RSI) Score(candles []*models.Candle) (float64, error) {
	if len(candles) < r.Period+1 {
		return 0, ErrInsufficientData
	}

	closes := models.Closes(candles)
	rsi := r.valueAt(closes, len(closes)-1)

	var score float64
	switch {
	case rsi < r.BuyThreshold:
		score = 1.0
	case rsi > r.SellThreshold:
		score = -1.0
	default:
		score = (50 - rsi) / 20
	}
	return clamp(sanitize(score), -1, 1), nil
}

// Vote 离散信号：RSI低于买入阈值=1，高于卖出阈值=-1，否则0
func (r *RSI) Vote(candles []*models.Candle) (int, error) {
	if len(candles) < r.Period+1 {
		return 0, ErrInsufficientData
	}

	closes := models.Closes(candles)
	rsi := r.valueAt(closes, len(closes)-1)

	if rsi < r.BuyThreshold {
		return 1, nil
	}
	if rsi > r.SellThreshold {
		return -1, nil
	}
	return 0, nil
}
