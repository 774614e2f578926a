package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSI_Score(t *testing.T) {
	rsi := NewRSI()

	t.Run("monotonic rise saturates overbought", func(t *testing.T) {
		// 没有任何下跌K线时RSI=100，评分饱和为-1
		candles := makeCandles(risingCloses(30, 100, 1))
		score, err := rsi.Score(candles)
		require.NoError(t, err)
		assert.Equal(t, -1.0, score)
	})

	t.Run("monotonic decline saturates oversold", func(t *testing.T) {
		candles := makeCandles(fallingCloses(30, 200, 1))
		score, err := rsi.Score(candles)
		require.NoError(t, err)
		assert.Equal(t, 1.0, score)
	})

	t.Run("balanced moves score near neutral", func(t *testing.T) {
		// 交替+1/-1，RSI约50，评分约0
		closes := make([]float64, 31)
		closes[0] = 100
		for i := 1; i < len(closes); i++ {
			if i%2 == 1 {
				closes[i] = closes[i-1] + 1
			} else {
				closes[i] = closes[i-1] - 1
			}
		}
		score, err := rsi.Score(makeCandles(closes))
		require.NoError(t, err)
		assert.InDelta(t, 0.0, score, 0.05)
	})

	t.Run("insufficient data returns error", func(t *testing.T) {
		candles := makeCandles(flatCloses(14, 100))
		score, err := rsi.Score(candles)
		assert.ErrorIs(t, err, ErrInsufficientData)
		assert.Equal(t, 0.0, score)
	})

	t.Run("score bounded", func(t *testing.T) {
		candles := makeCandles(sineCloses(100, 100, 20))
		score, err := rsi.Score(candles)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score, -1.0)
		assert.LessOrEqual(t, score, 1.0)
	})
}

func TestRSI_Calculate(t *testing.T) {
	rsi := NewRSI()

	t.Run("rising series RSI is 100", func(t *testing.T) {
		candles := makeCandles(risingCloses(30, 100, 1))
		values, err := rsi.Calculate(candles)
		require.NoError(t, err)
		require.Len(t, values, 30)
		assert.Equal(t, 100.0, values[len(values)-1])
	})

	t.Run("zero before full window", func(t *testing.T) {
		candles := makeCandles(risingCloses(20, 100, 1))
		values, err := rsi.Calculate(candles)
		require.NoError(t, err)
		for i := 0; i < rsi.Period; i++ {
			assert.Equal(t, 0.0, values[i])
		}
	})

	t.Run("invalid period returns error", func(t *testing.T) {
		bad := NewRSIWithParams(0, 30, 70)
		_, err := bad.Calculate(makeCandles(flatCloses(30, 100)))
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})
}

func TestRSI_Vote(t *testing.T) {
	rsi := NewRSI()

	tests := []struct {
		name     string
		closes   []float64
		expected int
	}{
		{"rising overbought sells", risingCloses(30, 100, 1), -1},
		{"falling oversold buys", fallingCloses(30, 200, 1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vote, err := rsi.Vote(makeCandles(tt.closes))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, vote)
		})
	}
}
