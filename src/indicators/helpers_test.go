package indicators

import (
	"math"

	"github.com/shopspring/decimal"

	"dexbot/src/models"
)

// makeCandles 用收盘价序列构造测试K线（高低价在收盘价±1）
func makeCandles(closes []float64) []*models.Candle {
	candles := make([]*models.Candle, len(closes))
	for i, c := range closes {
		candles[i] = &models.Candle{
			Timestamp: int64(i) * 600000,
			Open:      decimal.NewFromFloat(c),
			High:      decimal.NewFromFloat(c + 1),
			Low:       decimal.NewFromFloat(c - 1),
			Close:     decimal.NewFromFloat(c),
			Volume:    decimal.NewFromFloat(100),
		}
	}
	return candles
}

// risingCloses 等差上涨序列
func risingCloses(n int, start, step float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)*step
	}
	return closes
}

// fallingCloses 等差下跌序列
func fallingCloses(n int, start, step float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start - float64(i)*step
	}
	return closes
}

// flatCloses 平盘序列
func flatCloses(n int, price float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return closes
}

// sineCloses 正弦震荡序列
func sineCloses(n int, base, amplitude float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = base + amplitude*math.Sin(float64(i)/3)
	}
	return closes
}
