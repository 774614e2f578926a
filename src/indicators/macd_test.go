package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMACD_Calculate(t *testing.T) {
	macd := NewMACD()

	t.Run("series equal length and aligned", func(t *testing.T) {
		candles := makeCandles(sineCloses(60, 100, 5))
		result, err := macd.Calculate(candles)
		require.NoError(t, err)
		assert.Len(t, result.MACDLine, 60)
		assert.Len(t, result.SignalLine, 60)
		assert.Len(t, result.Histogram, 60)

		for i := range result.Histogram {
			assert.InDelta(t, result.MACDLine[i]-result.SignalLine[i], result.Histogram[i], 1e-9)
		}
	})

	t.Run("rising series positive histogram", func(t *testing.T) {
		candles := makeCandles(risingCloses(60, 100, 1))
		result, err := macd.Calculate(candles)
		require.NoError(t, err)
		assert.Greater(t, result.Histogram[len(result.Histogram)-1], 0.0)
	})

	t.Run("insufficient data returns error", func(t *testing.T) {
		_, err := macd.Calculate(makeCandles(flatCloses(25, 100)))
		assert.ErrorIs(t, err, ErrInsufficientData)
	})
}

func TestMACD_Score(t *testing.T) {
	macd := NewMACD()

	t.Run("rising momentum scores positive", func(t *testing.T) {
		score, err := macd.Score(makeCandles(risingCloses(60, 100, 1)))
		require.NoError(t, err)
		assert.Greater(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	})

	t.Run("falling momentum scores negative", func(t *testing.T) {
		score, err := macd.Score(makeCandles(fallingCloses(60, 200, 1)))
		require.NoError(t, err)
		assert.Less(t, score, 0.0)
		assert.GreaterOrEqual(t, score, -1.0)
	})

	t.Run("flat series scores 0", func(t *testing.T) {
		score, err := macd.Score(makeCandles(flatCloses(60, 100)))
		require.NoError(t, err)
		assert.Equal(t, 0.0, score)
	})
}

func TestMACD_Vote(t *testing.T) {
	macd := NewMACD()

	t.Run("V reversal produces golden cross", func(t *testing.T) {
		// 先跌后涨的序列，DIF必在某根K线处上穿DEA
		closes := append(fallingCloses(40, 200, 2), risingCloses(40, 120, 3)...)
		candles := makeCandles(closes)

		found := false
		for i := macd.SlowPeriod; i <= len(candles); i++ {
			vote, err := macd.Vote(candles[:i])
			if err == nil && vote == 1 {
				found = true
				break
			}
		}
		assert.True(t, found, "下跌转上涨应出现金叉")
	})

	t.Run("inverted V reversal produces death cross", func(t *testing.T) {
		closes := append(risingCloses(40, 100, 2), fallingCloses(40, 180, 3)...)
		candles := makeCandles(closes)

		found := false
		for i := macd.SlowPeriod; i <= len(candles); i++ {
			vote, err := macd.Vote(candles[:i])
			if err == nil && vote == -1 {
				found = true
				break
			}
		}
		assert.True(t, found, "上涨转下跌应出现死叉")
	})

	t.Run("monotonic trend has no cross", func(t *testing.T) {
		vote, err := macd.Vote(makeCandles(risingCloses(60, 100, 1)))
		require.NoError(t, err)
		assert.Equal(t, 0, vote)
	})
}
