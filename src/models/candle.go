package models

import (
	"github.com/shopspring/decimal"
)

// Candle K线数据 - 交易对价格历史的单根K线（OHLCV）
// 所有计算的唯一输入：按时间戳升序排列的Candle序列
type Candle struct {
	Timestamp int64           `json:"timestamp"` // 开盘时间（毫秒级时间戳）
	Open      decimal.Decimal `json:"open"`      // 开盘价
	High      decimal.Decimal `json:"high"`      // 最高价
	Low       decimal.Decimal `json:"low"`       // 最低价
	Close     decimal.Decimal `json:"close"`     // 收盘价
	Volume    decimal.Decimal `json:"volume"`    // 成交量
}

// CloseFloat 收盘价转为float64（指标计算使用浮点数）
func (c *Candle) CloseFloat() float64 {
	f, _ := c.Close.Float64()
	return f
}

// HighFloat 最高价转为float64
func (c *Candle) HighFloat() float64 {
	f, _ := c.High.Float64()
	return f
}

// LowFloat 最低价转为float64
func (c *Candle) LowFloat() float64 {
	f, _ := c.Low.Float64()
	return f
}

// VolumeFloat 成交量转为float64
func (c *Candle) VolumeFloat() float64 {
	f, _ := c.Volume.Float64()
	return f
}

// Closes 提取收盘价序列
func Closes(candles []*Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.CloseFloat()
	}
	return closes
}

// Highs 提取最高价序列
func Highs(candles []*Candle) []float64 {
	highs := make([]float64, len(candles))
	for i, c := range candles {
		highs[i] = c.HighFloat()
	}
	return highs
}

// Lows 提取最低价序列
func Lows(candles []*Candle) []float64 {
	lows := make([]float64, len(candles))
	for i, c := range candles {
		lows[i] = c.LowFloat()
	}
	return lows
}

// Volumes 提取成交量序列
func Volumes(candles []*Candle) []float64 {
	volumes := make([]float64, len(candles))
	for i, c := range candles {
		volumes[i] = c.VolumeFloat()
	}
	return volumes
}
