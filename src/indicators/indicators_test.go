package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestATR_VolatilityScore(t *testing.T) {
	atr := NewATR()

	t.Run("known score for constant range", func(t *testing.T) {
		// 高低价恒为收盘价±1，真实波幅恒为2，ATR占价格2%
		score, err := atr.VolatilityScore(makeCandles(flatCloses(30, 100)))
		require.NoError(t, err)
		assert.InDelta(t, (2.0-1)/9, score, 1e-9)
	})

	t.Run("wilder series scores higher", func(t *testing.T) {
		calm, err := atr.VolatilityScore(makeCandles(sineCloses(50, 100, 1)))
		require.NoError(t, err)
		wild, err := atr.VolatilityScore(makeCandles(sineCloses(50, 100, 20)))
		require.NoError(t, err)
		assert.Greater(t, wild, calm)
	})

	t.Run("insufficient data returns error", func(t *testing.T) {
		_, err := atr.VolatilityScore(makeCandles(flatCloses(13, 100)))
		assert.ErrorIs(t, err, ErrInsufficientData)
	})
}

func TestOBV_Score(t *testing.T) {
	obv := NewOBV()

	t.Run("rising volume scores positive", func(t *testing.T) {
		score, err := obv.Score(makeCandles(risingCloses(40, 100, 1)))
		require.NoError(t, err)
		assert.Greater(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	})

	t.Run("falling volume scores negative", func(t *testing.T) {
		score, err := obv.Score(makeCandles(fallingCloses(40, 200, 1)))
		require.NoError(t, err)
		assert.Less(t, score, 0.0)
		assert.GreaterOrEqual(t, score, -1.0)
	})

	t.Run("insufficient data returns error", func(t *testing.T) {
		_, err := obv.Score(makeCandles(risingCloses(20, 100, 1)))
		assert.ErrorIs(t, err, ErrInsufficientData)
	})
}

func TestOBV_Calculate(t *testing.T) {
	obv := NewOBV()

	t.Run("cumulative direction follows moves", func(t *testing.T) {
		// 涨/跌/平各走一步
		values, err := obv.Calculate(makeCandles([]float64{100, 101, 100, 100}))
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 100, 0, 0}, values)
	})
}

func TestIchimoku_Score(t *testing.T) {
	ic := NewIchimoku()

	t.Run("no valid cloud falls back to cross signal", func(t *testing.T) {
		// 60根K线不足以让前移后的先行带B产生有效值
		score, err := ic.Score(makeCandles(risingCloses(60, 100, 1)))
		require.NoError(t, err)
		assert.Equal(t, 0.5, score)
	})

	t.Run("strong rise lights all three factors", func(t *testing.T) {
		score, err := ic.Score(makeCandles(risingCloses(120, 100, 1)))
		require.NoError(t, err)
		assert.InDelta(t, 1.0, score, 1e-9)
	})

	t.Run("sustained decline clears all three factors", func(t *testing.T) {
		score, err := ic.Score(makeCandles(fallingCloses(120, 300, 1)))
		require.NoError(t, err)
		assert.InDelta(t, -1.0, score, 1e-9)
	})

	t.Run("insufficient data returns error", func(t *testing.T) {
		_, err := ic.Score(makeCandles(risingCloses(51, 100, 1)))
		assert.ErrorIs(t, err, ErrInsufficientData)
	})
}

func TestStochasticRSI_Score(t *testing.T) {
	s := NewStochasticRSI()

	t.Run("oscillating series score bounded", func(t *testing.T) {
		score, err := s.Score(makeCandles(sineCloses(60, 100, 5)))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score, -1.0)
		assert.LessOrEqual(t, score, 1.0)
	})

	t.Run("monotonic series degenerate RSI scores 0", func(t *testing.T) {
		// 单边上涨时RSI恒为100，随机化窗口内无波动
		score, err := s.Score(makeCandles(risingCloses(60, 100, 1)))
		assert.ErrorIs(t, err, ErrDegenerateInput)
		assert.Equal(t, 0.0, score)
	})

	t.Run("insufficient data returns error", func(t *testing.T) {
		_, _, err := s.Calculate(makeCandles(sineCloses(27, 100, 5)))
		assert.ErrorIs(t, err, ErrInsufficientData)
	})
}

func TestSeriesHelpers(t *testing.T) {
	t.Run("emaSeries seeds with first value", func(t *testing.T) {
		values := emaSeries([]float64{10, 20}, 9)
		assert.Equal(t, 10.0, values[0])
		// alpha = 2/(9+1) = 0.2
		assert.InDelta(t, 20*0.2+10*0.8, values[1], 1e-9)
	})

	t.Run("sample and population stddev", func(t *testing.T) {
		data := []float64{2, 4, 4, 4, 5, 5, 7, 9}
		assert.InDelta(t, 2.0, stdDevPopulation(data), 1e-9)
		assert.InDelta(t, math.Sqrt(32.0/7), stdDevSample(data), 1e-9)
	})

	t.Run("sanitize zeroes NaN and Inf", func(t *testing.T) {
		assert.Equal(t, 0.0, sanitize(math.NaN()))
		assert.Equal(t, 0.0, sanitize(math.Inf(1)))
		assert.Equal(t, 0.0, sanitize(math.Inf(-1)))
		assert.Equal(t, 1.5, sanitize(1.5))
	})

	t.Run("rollingMean NaN before full window", func(t *testing.T) {
		values := rollingMean([]float64{1, 2, 3, 4}, 3)
		assert.True(t, math.IsNaN(values[0]))
		assert.True(t, math.IsNaN(values[1]))
		assert.InDelta(t, 2.0, values[2], 1e-9)
		assert.InDelta(t, 3.0, values[3], 1e-9)
	})
}
