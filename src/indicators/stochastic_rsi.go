package indicators

import (
	"math"

	"dexbot/src/models"
)

// StochasticRSI 随机RSI - 对RSI再做随机指标，更灵敏的动量指标
type StochasticRSI struct {
	RSIPeriod   int     // RSI周期，通常为14
	StochPeriod int     // 随机指标周期，通常为14
	KPeriod     int     // %K平滑周期，通常为3
	DPeriod     int     // %D平滑周期，通常为3
	Oversold    float64 // 超卖阈值，默认20
	Overbought  float64 // 超买阈值，默认80
}

// NewStochasticRSI 创建随机RSI指标（默认14/14/3/3，20/80阈值）
func NewStochasticRSI() *StochasticRSI {
	return &StochasticRSI{RSIPeriod: 14, StochPeriod: 14, KPeriod: 3, DPeriod: 3, Oversold: 20, Overbought: 80}
}

// Name 指标名称
func (s *StochasticRSI) Name() string { return "stoch_rsi" }

// emaRSI 基于EMA的RSI序列（涨跌幅分别做EMA平滑）
func (s *StochasticRSI) emaRSI(closes []float64) []float64 {
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	avgGain := emaSeries(gains, s.RSIPeriod)
	avgLoss := emaSeries(losses, s.RSIPeriod)

	rsi := make([]float64, len(closes))
	for i := range closes {
		switch {
		case avgLoss[i] == 0 && avgGain[i] == 0:
			rsi[i] = math.NaN()
		case avgLoss[i] == 0:
			rsi[i] = 100
		default:
			rs := avgGain[i] / avgLoss[i]
			rsi[i] = 100 - (100 / (1 + rs))
		}
	}
	return rsi
}

// Calculate 计算%K和%D序列（未定义处为NaN）
func (s *StochasticRSI) Calculate(candles []*models.Candle) (k, d []float64, err error) {
	if len(candles) < s.RSIPeriod+s.StochPeriod {
		return nil, nil, ErrInsufficientData
	}

	closes := models.Closes(candles)
	rsi := s.emaRSI(closes)

	rsiMin := rollingMin(rsi, s.StochPeriod)
	rsiMax := rollingMax(rsi, s.StochPeriod)

	stochRSI := make([]float64, len(rsi))
	for i := range rsi {
		span := rsiMax[i] - rsiMin[i]
		if math.IsNaN(span) || span == 0 {
			stochRSI[i] = math.NaN()
			continue
		}
		stochRSI[i] = 100 * (rsi[i] - rsiMin[i]) / span
	}

	k = rollingMean(stochRSI, s.KPeriod)
	d = rollingMean(k, s.DPeriod)
	return k, d, nil
}

// Score 生成[-1,1]评分
// 超卖区%K上穿%D=+1，超买区下穿=-1；
// 否则按%K相对超卖/超买阈值与中线的位置插值
func (s *StochasticRSI) Score(candles []*models.Candle) (float64, error) {
	k, d, err := s.Calculate(candles)
	if err != nil {
		return 0, err
	}

	n := len(k)
	currentK, currentD := k[n-1], d[n-1]
	if math.IsNaN(currentK) || math.IsNaN(currentD) {
		return 0, ErrDegenerateInput
	}

	// 交叉信号
	if n >= 2 && !math.IsNaN(k[n-2]) && !math.IsNaN(d[n-2]) {
		prevK, prevD := k[n-2], d[n-2]
		if currentK > currentD && prevK <= prevD && currentK < s.Oversold {
			return 1.0, nil
		}
		if currentK < currentD && prevK >= prevD && currentK > s.Overbought {
			return -1.0, nil
		}
	}

	var score float64
	const mid = 50.0
	switch {
	case currentK < s.Oversold:
		score = 0.5 + (s.Oversold-currentK)/s.Oversold*0.5
	case currentK > s.Overbought:
		score = -0.5 - (currentK-s.Overbought)/(100-s.Overbought)*0.5
	case currentK < mid:
		score = (currentK - s.Oversold) / (mid - s.Oversold) * 0.5
	default:
		score = -(currentK - mid) / (s.Overbought - mid) * 0.5
	}

	return clamp(sanitize(score), -1, 1), nil
}
