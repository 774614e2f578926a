package indicators

import (
	"math"

	"dexbot/src/models"
)

// MACD 指数平滑异同移动平均线
type MACD struct {
	FastPeriod   int // 快线周期，通常为12
	SlowPeriod   int // 慢线周期，通常为26
	SignalPeriod int // 信号线周期，通常为9
}

// MACDResult MACD计算结果（三条序列等长，与输入K线对齐）
type MACDResult struct {
	MACDLine   []float64 // DIF线：快EMA - 慢EMA
	SignalLine []float64 // DEA线：DIF的EMA
	Histogram  []float64 // 柱状图：DIF - DEA
}

// NewMACD 创建MACD指标（默认12/26/9）
func NewMACD() *MACD {
	return &MACD{FastPeriod: 12, SlowPeriod: 26, SignalPeriod: 9}
}

// NewMACDWithParams 按指定参数创建MACD指标
func NewMACDWithParams(fast, slow, signal int) *MACD {
	return &MACD{FastPeriod: fast, SlowPeriod: slow, SignalPeriod: signal}
}

// Name 指标名称
func (m *MACD) Name() string { return "macd" }

// Calculate 计算MACD三条序列
func (m *MACD) Calculate(candles []*models.Candle) (*MACDResult, error) {
	if m.FastPeriod <= 0 || m.SlowPeriod <= 0 || m.SignalPeriod <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < m.SlowPeriod {
		return nil, ErrInsufficientData
	}

	closes := models.Closes(candles)
	fastEMA := emaSeries(closes, m.FastPeriod)
	slowEMA := emaSeries(closes, m.SlowPeriod)

	macdLine := make([]float64, len(closes))
	for i := range closes {
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}

	signalLine := emaSeries(macdLine, m.SignalPeriod)

	histogram := make([]float64, len(closes))
	for i := range closes {
		histogram[i] = macdLine[i] - signalLine[i]
	}

	return &MACDResult{MACDLine: macdLine, SignalLine: signalLine, Histogram: histogram}, nil
}

// Score 生成[-1,1]评分：tanh(柱状图 × 10)
func (m *MACD) Score(candles []*models.Candle) (float64, error) {
	result, err := m.Calculate(candles)
	if err != nil {
		return 0, err
	}

	hist := result.Histogram[len(result.Histogram)-1]
	return clamp(sanitize(math.Tanh(hist*10)), -1, 1), nil
}

// Vote 离散信号：DIF上穿DEA=1（金叉），下穿=-1（死叉），否则0
func (m *MACD) Vote(candles []*models.Candle) (int, error) {
	result, err := m.Calculate(candles)
	if err != nil {
		return 0, err
	}

	n := len(result.MACDLine)
	if n < 2 {
		return 0, nil
	}

	curMACD, curSignal := result.MACDLine[n-1], result.SignalLine[n-1]
	prevMACD, prevSignal := result.MACDLine[n-2], result.SignalLine[n-2]

	if curMACD > curSignal && prevMACD < prevSignal {
		return 1, nil
	}
	if curMACD < curSignal && prevMACD > prevSignal {
		return -1, nil
	}
	return 0, nil
}
