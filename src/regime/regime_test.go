package regime

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dexbot/src/models"
)

func makeCandles(closes []float64) []*models.Candle {
	candles := make([]*models.Candle, len(closes))
	for i, c := range closes {
		candles[i] = &models.Candle{
			Timestamp: int64(i) * 600000,
			Open:      decimal.NewFromFloat(c),
			High:      decimal.NewFromFloat(c + 0.5),
			Low:       decimal.NewFromFloat(c - 0.5),
			Close:     decimal.NewFromFloat(c),
			Volume:    decimal.NewFromFloat(100),
		}
	}
	return candles
}

func TestDetector_Detect(t *testing.T) {
	d := NewDetector()

	t.Run("insufficient data returns unknown", func(t *testing.T) {
		closes := make([]float64, 49)
		for i := range closes {
			closes[i] = 100
		}
		assert.Equal(t, Unknown, d.Detect(makeCandles(closes)))
	})

	t.Run("steady rise detected as trending up", func(t *testing.T) {
		closes := make([]float64, 150)
		for i := range closes {
			closes[i] = 100 + float64(i)
		}
		assert.Equal(t, TrendingUp, d.Detect(makeCandles(closes)))
	})

	t.Run("steady decline detected as trending down", func(t *testing.T) {
		closes := make([]float64, 150)
		for i := range closes {
			closes[i] = 350 - float64(i)
		}
		assert.Equal(t, TrendingDown, d.Detect(makeCandles(closes)))
	})

	t.Run("tight oscillation detected as ranging", func(t *testing.T) {
		// 小振幅高频震荡：频繁穿越中线且振幅占比小
		closes := make([]float64, 100)
		for i := range closes {
			closes[i] = 100 + 0.3*math.Sin(float64(i))
		}
		assert.Equal(t, Ranging, d.Detect(makeCandles(closes)))
	})

	t.Run("violent swings detected as high volatility", func(t *testing.T) {
		// 每根K线±15%的锯齿
		closes := make([]float64, 100)
		closes[0] = 100
		for i := 1; i < len(closes); i++ {
			if i%2 == 1 {
				closes[i] = closes[i-1] * 1.15
			} else {
				closes[i] = closes[i-1] * 0.85
			}
		}
		assert.Equal(t, HighVolatility, d.Detect(makeCandles(closes)))
	})

	t.Run("flat series detected as ranging", func(t *testing.T) {
		closes := make([]float64, 100)
		for i := range closes {
			closes[i] = 100
		}
		assert.Equal(t, Ranging, d.Detect(makeCandles(closes)))
	})
}

func TestDetector_Metrics(t *testing.T) {
	d := NewDetector()

	t.Run("trend strength bounded and decays with noise", func(t *testing.T) {
		clean := make([]float64, 50)
		noisy := make([]float64, 50)
		for i := range clean {
			clean[i] = 100 + float64(i)
			noisy[i] = 100 + float64(i) + 15*math.Sin(float64(i)*2.5)
		}

		cleanStrength := d.trendStrength(clean)
		noisyStrength := d.trendStrength(noisy)

		assert.LessOrEqual(t, cleanStrength, 1.0)
		assert.Greater(t, cleanStrength, 0.0)
		assert.Less(t, noisyStrength, cleanStrength)
	})

	t.Run("short window yields zero metrics", func(t *testing.T) {
		short := []float64{100, 101, 102}
		assert.Equal(t, 0.0, d.trendStrength(short))
		assert.Equal(t, 0.0, d.rangeTightness(short))
	})

	t.Run("flat series has zero volatility", func(t *testing.T) {
		flat := make([]float64, 50)
		for i := range flat {
			flat[i] = 100
		}
		assert.Equal(t, 0.0, d.volatility(flat))
	})
}

func TestGetWeights(t *testing.T) {
	t.Run("every regime has a complete weight table", func(t *testing.T) {
		regimes := []Regime{TrendingUp, TrendingDown, Ranging, HighVolatility}
		indicators := []string{"rsi", "macd", "bb", "ma_cross", "stoch_rsi", "roc", "ichimoku"}

		for _, r := range regimes {
			weights := GetWeights(r)
			for _, name := range indicators {
				w, ok := weights[name]
				require.True(t, ok, "%s missing weight for %s", r, name)
				assert.Greater(t, w, 0.0)
			}
		}
	})

	t.Run("unknown regime weights all ones", func(t *testing.T) {
		weights := GetWeights(Unknown)
		for name, w := range weights {
			assert.Equal(t, 1.0, w, name)
		}
	})

	t.Run("returns a copy", func(t *testing.T) {
		weights := GetWeights(TrendingUp)
		original := weights["rsi"]
		weights["rsi"] = 99
		assert.Equal(t, original, GetWeights(TrendingUp)["rsi"])
	})
}
