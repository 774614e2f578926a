package config

import (
	"fmt"

	"github.com/xpwu/go-config/configs"

	"dexbot/src/database"
	"dexbot/src/timeframes"
)

// Config 主配置结构
type Config struct {
	Binance  BinanceConfig   `conf:"binance,币安行情配置"`
	Database database.Config `conf:"database,数据库配置"`
	Strategy StrategyConfig  `conf:"strategy,AI策略配置"`
	Monitor  MonitorConfig   `conf:"monitor,信号评估循环配置"`
	Backtest BacktestConfig  `conf:"backtest,回测与优化配置"`
}

// BinanceConfig 币安行情API配置（只读行情，不需要交易权限）
type BinanceConfig struct {
	APIKey    string `conf:"api_key,API密钥"`
	SecretKey string `conf:"secret_key,API私钥"`
	BaseURL   string `conf:"base_url,API地址"`
	Timeout   int    `conf:"timeout,请求超时时间(秒)"`
}

// StrategyConfig AI策略配置
type StrategyConfig struct {
	ExecutionThreshold  float64 `conf:"execution_threshold,执行阈值 - 综合评分绝对值超过才触发，默认0.6"`
	ConfidenceThreshold float64 `conf:"confidence_threshold,置信度阈值 - 默认0.7"`
	MinFlipIntervalMin  int     `conf:"min_flip_interval_minutes,最小翻转间隔(分钟) - 防止频繁翻转，默认30"`
	Timeframe           string  `conf:"timeframe,K线周期 - 默认10m"`
}

// MonitorConfig 信号评估循环配置
type MonitorConfig struct {
	IntervalSeconds     int `conf:"interval_seconds,评估周期(秒) - 默认300"`
	CandleLimit         int `conf:"candle_limit,每次评估拉取的K线数量 - 默认150"`
	OptimizeIntervalDay int `conf:"optimize_interval_days,参数优化周期(天) - 默认7"`
}

// BacktestConfig 回测与优化配置
type BacktestConfig struct {
	LookbackDays int `conf:"lookback_days,回测历史数据天数 - 默认90"`
}

// AppConfig 全局配置实例
var AppConfig = &Config{
	Binance: BinanceConfig{
		APIKey:    "",
		SecretKey: "",
		BaseURL:   "https://api.binance.com",
		Timeout:   10,
	},
	Database: database.DefaultConfig(),
	Strategy: StrategyConfig{
		ExecutionThreshold:  0.6,
		ConfidenceThreshold: 0.7,
		MinFlipIntervalMin:  30,
		Timeframe:           "10m",
	},
	Monitor: MonitorConfig{
		IntervalSeconds:     300,
		CandleLimit:         150,
		OptimizeIntervalDay: 7,
	},
	Backtest: BacktestConfig{
		LookbackDays: 90,
	},
}

// 在包的 init() 函数中注册配置
func init() {
	configs.Unmarshal(AppConfig)
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Strategy.ExecutionThreshold <= 0 || c.Strategy.ExecutionThreshold >= 1 {
		return fmt.Errorf("execution threshold must be in (0,1), got %v", c.Strategy.ExecutionThreshold)
	}
	if c.Strategy.ConfidenceThreshold <= 0 || c.Strategy.ConfidenceThreshold >= 1 {
		return fmt.Errorf("confidence threshold must be in (0,1), got %v", c.Strategy.ConfidenceThreshold)
	}

	if _, err := timeframes.ParseTimeframe(c.Strategy.Timeframe); err != nil {
		return fmt.Errorf("invalid timeframe: %w", err)
	}

	if c.Monitor.IntervalSeconds <= 0 {
		return fmt.Errorf("monitor interval must be positive")
	}
	if c.Monitor.CandleLimit <= 0 {
		return fmt.Errorf("candle limit must be positive")
	}
	if c.Backtest.LookbackDays <= 0 {
		return fmt.Errorf("lookback days must be positive")
	}
	return nil
}

// GetTimeframe 获取策略K线周期
func (c *Config) GetTimeframe() timeframes.Timeframe {
	tf, err := timeframes.ParseTimeframe(c.Strategy.Timeframe)
	if err != nil {
		return timeframes.Timeframe10m
	}
	return tf
}
