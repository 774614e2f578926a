package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestROC_Calculate(t *testing.T) {
	roc := NewROC()

	t.Run("percent change series", func(t *testing.T) {
		closes := append(flatCloses(20, 100), 110)
		values, err := roc.Calculate(makeCandles(closes))
		require.NoError(t, err)
		assert.InDelta(t, 10.0, values[len(values)-1], 1e-9)
	})

	t.Run("NaN before full window", func(t *testing.T) {
		values, err := roc.Calculate(makeCandles(flatCloses(20, 100)))
		require.NoError(t, err)
		for i := 0; i < roc.Period; i++ {
			assert.True(t, math.IsNaN(values[i]))
		}
	})

	t.Run("insufficient data returns error", func(t *testing.T) {
		_, err := roc.Calculate(makeCandles(flatCloses(12, 100)))
		assert.ErrorIs(t, err, ErrInsufficientData)
	})
}

func TestROC_Score(t *testing.T) {
	roc := NewROC()

	t.Run("cross above zero scores 0.8", func(t *testing.T) {
		// 前一根ROC为0，当前转正
		closes := append(flatCloses(20, 100), 101)
		score, err := roc.Score(makeCandles(closes))
		require.NoError(t, err)
		assert.Equal(t, 0.8, score)
	})

	t.Run("cross below zero scores -0.8", func(t *testing.T) {
		closes := append(flatCloses(20, 100), 99)
		score, err := roc.Score(makeCandles(closes))
		require.NoError(t, err)
		assert.Equal(t, -0.8, score)
	})

	t.Run("sustained strong momentum saturates to +1", func(t *testing.T) {
		// 复利上涨，12期变化率远超5%阈值
		closes := make([]float64, 30)
		for i := range closes {
			closes[i] = 100 * math.Pow(1.01, float64(i))
		}
		score, err := roc.Score(makeCandles(closes))
		require.NoError(t, err)
		assert.Equal(t, 1.0, score)
	})

	t.Run("weak signal linear inside threshold", func(t *testing.T) {
		closes := make([]float64, 30)
		for i := range closes {
			closes[i] = 100 * math.Pow(1.001, float64(i))
		}
		score, err := roc.Score(makeCandles(closes))
		require.NoError(t, err)

		current := (math.Pow(1.001, 12) - 1) * 100
		assert.InDelta(t, current/roc.Threshold*0.5, score, 1e-9)
	})
}
