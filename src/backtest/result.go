package backtest

import (
	"github.com/shopspring/decimal"

	"dexbot/src/regime"
)

// SimulatedTrade 回测中的一次模拟持仓翻转记录
// 只在单次回测内部产生，随Result返回，不跨回测共享
type SimulatedTrade struct {
	EntryIndex     int             `json:"entry_index"`     // 开仓K线序号
	ExitIndex      int             `json:"exit_index"`      // 平仓K线序号
	EntryPrice     decimal.Decimal `json:"entry_price"`     // 开仓价
	ExitPrice      decimal.Decimal `json:"exit_price"`      // 平仓价
	PnLPercent     float64         `json:"pnl_percent"`     // 盈亏百分比
	HoldingPeriods int             `json:"holding_periods"` // 持仓K线数量
}

// Result 回测结果 - 从已平仓交易账本和权益曲线推导的聚合指标
type Result struct {
	TotalTrades             int                `json:"total_trades"`
	WinningTrades           int                `json:"winning_trades"`
	LosingTrades            int                `json:"losing_trades"`
	WinRatePercent          float64            `json:"win_rate_percent"`
	TotalReturnPercent      float64            `json:"total_return_percent"`
	SharpeRatio             float64            `json:"sharpe_ratio"`
	MaxDrawdownPercent      float64            `json:"max_drawdown_percent"`
	AvgTradeDurationMinutes int64              `json:"avg_trade_duration_minutes"`
	MarketRegime            regime.Regime      `json:"market_regime"`     // 回测评估期间最后观测到的市场状态
	IndicatorWeights        map[string]float64 `json:"indicator_weights"` // 本次回测使用的基础权重
	AccumulatingBase        bool               `json:"accumulating_base"` // 盈亏记账口径：是否以base币计

	// 明细（不持久化，供分析与测试用）
	Trades      []*SimulatedTrade `json:"-"`
	EquityCurve []float64         `json:"-"`
}
