package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCandleFloatAccessors(t *testing.T) {
	c := &Candle{
		Timestamp: 1000,
		Open:      decimal.NewFromFloat(99.5),
		High:      decimal.NewFromFloat(101.25),
		Low:       decimal.NewFromFloat(98.75),
		Close:     decimal.NewFromFloat(100.5),
		Volume:    decimal.NewFromFloat(12.34),
	}

	assert.Equal(t, 100.5, c.CloseFloat())
	assert.Equal(t, 101.25, c.HighFloat())
	assert.Equal(t, 98.75, c.LowFloat())
	assert.Equal(t, 12.34, c.VolumeFloat())
}

func TestSeriesExtraction(t *testing.T) {
	candles := []*Candle{
		{Close: decimal.NewFromInt(100), High: decimal.NewFromInt(101), Low: decimal.NewFromInt(99), Volume: decimal.NewFromInt(10)},
		{Close: decimal.NewFromInt(102), High: decimal.NewFromInt(103), Low: decimal.NewFromInt(101), Volume: decimal.NewFromInt(20)},
	}

	assert.Equal(t, []float64{100, 102}, Closes(candles))
	assert.Equal(t, []float64{101, 103}, Highs(candles))
	assert.Equal(t, []float64{99, 101}, Lows(candles))
	assert.Equal(t, []float64{10, 20}, Volumes(candles))

	assert.Empty(t, Closes(nil))
}
