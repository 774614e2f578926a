package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dexbot/src/timeframes"
)

func validConfig() *Config {
	c := *AppConfig
	return &c
}

func TestConfig_Validate(t *testing.T) {
	t.Run("default config valid", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("execution threshold out of range", func(t *testing.T) {
		c := validConfig()
		c.Strategy.ExecutionThreshold = 1.5
		assert.Error(t, c.Validate())

		c.Strategy.ExecutionThreshold = 0
		assert.Error(t, c.Validate())
	})

	t.Run("confidence threshold out of range", func(t *testing.T) {
		c := validConfig()
		c.Strategy.ConfidenceThreshold = -0.1
		assert.Error(t, c.Validate())
	})

	t.Run("invalid timeframe", func(t *testing.T) {
		c := validConfig()
		c.Strategy.Timeframe = "7m"
		assert.Error(t, c.Validate())
	})

	t.Run("monitor interval must be positive", func(t *testing.T) {
		c := validConfig()
		c.Monitor.IntervalSeconds = 0
		assert.Error(t, c.Validate())
	})

	t.Run("candle limit must be positive", func(t *testing.T) {
		c := validConfig()
		c.Monitor.CandleLimit = -1
		assert.Error(t, c.Validate())
	})

	t.Run("lookback days must be positive", func(t *testing.T) {
		c := validConfig()
		c.Backtest.LookbackDays = 0
		assert.Error(t, c.Validate())
	})
}

func TestConfig_GetTimeframe(t *testing.T) {
	t.Run("configured timeframe", func(t *testing.T) {
		c := validConfig()
		c.Strategy.Timeframe = "1h"
		assert.Equal(t, timeframes.Timeframe1h, c.GetTimeframe())
	})

	t.Run("invalid timeframe falls back to 10m", func(t *testing.T) {
		c := validConfig()
		c.Strategy.Timeframe = "garbage"
		assert.Equal(t, timeframes.Timeframe10m, c.GetTimeframe())
	})
}

func TestDefaultAppConfig(t *testing.T) {
	assert.Equal(t, 0.6, AppConfig.Strategy.ExecutionThreshold)
	assert.Equal(t, 0.7, AppConfig.Strategy.ConfidenceThreshold)
	assert.Equal(t, 30, AppConfig.Strategy.MinFlipIntervalMin)
	assert.Equal(t, "10m", AppConfig.Strategy.Timeframe)
	assert.Equal(t, 300, AppConfig.Monitor.IntervalSeconds)
	assert.Equal(t, 150, AppConfig.Monitor.CandleLimit)
	assert.Equal(t, 90, AppConfig.Backtest.LookbackDays)
}
