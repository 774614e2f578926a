package backtest

import (
	"math"

	"dexbot/src/models"
	"dexbot/src/regime"
	"dexbot/src/signal"
	"dexbot/src/timeframes"
)

// position 持仓状态
type position int

const (
	holdingBase  position = iota // 持有base币
	holdingQuote                 // 持有quote币
)

// Simulator 回测模拟器
// 将综合信号驱动的决策规则在历史K线上回放，产出模拟交易账本与绩效指标。
// 无状态，单次Run的全部状态都是局部变量，可并发调用
type Simulator struct {
	engine      *signal.Engine
	timeframe   timeframes.Timeframe
	minLookback int // 指标所需的最小回看窗口
}

// NewSimulator 创建回测模拟器
func NewSimulator(tf timeframes.Timeframe) *Simulator {
	return &Simulator{
		engine:      signal.NewEngine(),
		timeframe:   tf,
		minLookback: signal.MinCandles,
	}
}

// Run 运行回测
// 状态机：从holding_base出发，在每根K线（序号≥最小窗口）用截至该K线的
// 滚动窗口计算综合信号：
//   - 持base且评分 < -执行阈值且置信度 > 置信阈值 → 卖出base（翻转到quote）
//   - 持quote且评分 > 执行阈值且置信度 > 置信阈值 → 买入base（翻转到base）
//
// 每次翻转平掉上一笔持仓并复利累积权益。序列结束时未翻转的持仓不计入。
// accumulatingBase只影响盈亏记账口径标注，不影响交易时机。
// 零交易的回测返回全零的合法结果，不是错误
func (s *Simulator) Run(candles []*models.Candle, params *signal.ParameterSet, accumulatingBase bool) *Result {
	if params == nil {
		params = signal.DefaultParameterSet()
	}

	pos := holdingBase
	var entryPrice float64
	entryIndex := -1
	hasOpenEntry := false

	trades := make([]*SimulatedTrade, 0)
	equityCurve := []float64{1.0}
	currentEquity := 1.0
	lastRegime := regime.Unknown

	for i := s.minLookback; i < len(candles); i++ {
		start := i - s.minLookback
		if start < 0 {
			start = 0
		}
		window := candles[start : i+1]
		currentPrice := candles[i].CloseFloat()

		eval := s.engine.Evaluate(window, params)
		if eval.Regime != regime.Unknown {
			lastRegime = eval.Regime
		}

		var action string
		switch {
		case pos == holdingBase && eval.Score < -params.ExecutionThreshold && eval.Confidence > params.ConfidenceThreshold:
			// 强卖出信号 - 在下跌前卖出base
			action = "sell"
		case pos == holdingQuote && eval.Score > params.ExecutionThreshold && eval.Confidence > params.ConfidenceThreshold:
			// 强买入信号 - 在上涨前买入base
			action = "buy"
		default:
			continue
		}

		if hasOpenEntry {
			// 平掉上一笔持仓
			var pnlPercent float64
			if action == "buy" {
				// 之前持quote，现在买回base：盈亏按quote计
				pnlPercent = (entryPrice/currentPrice - 1) * 100
			} else {
				// 之前持base，现在卖成quote：盈亏按base价格变化计
				pnlPercent = (currentPrice/entryPrice - 1) * 100
			}
			pnlPercent = sanitize(pnlPercent)

			currentEquity *= 1 + pnlPercent/100
			equityCurve = append(equityCurve, currentEquity)

			trades = append(trades, &SimulatedTrade{
				EntryIndex:     entryIndex,
				ExitIndex:      i,
				EntryPrice:     candles[entryIndex].Close,
				ExitPrice:      candles[i].Close,
				PnLPercent:     pnlPercent,
				HoldingPeriods: i - entryIndex,
			})
		}

		// 开新仓
		entryPrice = currentPrice
		entryIndex = i
		hasOpenEntry = true
		if action == "sell" {
			pos = holdingQuote
		} else {
			pos = holdingBase
		}
	}

	return s.buildResult(trades, equityCurve, currentEquity, lastRegime, params, accumulatingBase)
}

// buildResult 从交易账本和权益曲线计算聚合指标
func (s *Simulator) buildResult(trades []*SimulatedTrade, equityCurve []float64, finalEquity float64,
	lastRegime regime.Regime, params *signal.ParameterSet, accumulatingBase bool) *Result {

	result := &Result{
		MarketRegime:     lastRegime,
		IndicatorWeights: params.Weights,
		AccumulatingBase: accumulatingBase,
		Trades:           trades,
		EquityCurve:      equityCurve,
	}

	if len(trades) == 0 {
		return result
	}

	returns := make([]float64, len(trades))
	totalHolding := 0
	for i, t := range trades {
		returns[i] = t.PnLPercent
		totalHolding += t.HoldingPeriods
		if t.PnLPercent > 0 {
			result.WinningTrades++
		} else {
			result.LosingTrades++
		}
	}

	result.TotalTrades = len(trades)
	result.WinRatePercent = float64(result.WinningTrades) / float64(result.TotalTrades) * 100
	result.TotalReturnPercent = (finalEquity - 1) * 100
	result.SharpeRatio = sharpeRatio(returns)
	result.MaxDrawdownPercent = maxDrawdown(equityCurve)

	minutes, err := s.timeframe.GetMinutes()
	if err != nil {
		minutes = 10
	}
	avgPeriods := float64(totalHolding) / float64(len(trades))
	result.AvgTradeDurationMinutes = int64(avgPeriods * float64(minutes))

	return result
}

// sharpeRatio 年化夏普比率 ≈ mean(pnl%) / std(pnl%) × sqrt(252)
// 交易少于2笔或零方差时为0
func sharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	std := math.Sqrt(variance / float64(len(returns)))
	if std == 0 {
		return 0
	}

	return sanitize(mean / std * math.Sqrt(252))
}

// maxDrawdown 权益曲线的最大峰谷回撤百分比
func maxDrawdown(equityCurve []float64) float64 {
	maxDD := 0.0
	runningMax := math.Inf(-1)
	for _, v := range equityCurve {
		if v > runningMax {
			runningMax = v
		}
		if runningMax > 0 {
			dd := (runningMax - v) / runningMax * 100
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return sanitize(maxDD)
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
