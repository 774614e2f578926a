package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xpwu/go-log/log"

	"dexbot/src/database"
	"dexbot/src/optimizer"
	"dexbot/src/signal"
	"dexbot/src/timeframes"
)

// OptimizeOptions 参数优化后台任务配置
type OptimizeOptions struct {
	Interval     time.Duration        // 同一交易两次优化之间的最小间隔
	CheckEvery   time.Duration        // 扫描周期
	LookbackDays int                  // 回测历史数据天数
	Timeframe    timeframes.Timeframe // 交易未指定时的默认周期
}

// OptimizeWorker 参数优化后台任务
// 周期性扫描AI策略交易，参数过期的重新跑一轮网格搜索，
// 最优参数和对应回测结果落库供评估循环使用
type OptimizeWorker struct {
	db      *database.PostgresDB
	candles *database.CandleManager
	opts    OptimizeOptions

	stopChan chan struct{}
}

// NewOptimizeWorker 创建参数优化后台任务
func NewOptimizeWorker(db *database.PostgresDB, candles *database.CandleManager, opts OptimizeOptions) *OptimizeWorker {
	if opts.Interval <= 0 {
		opts.Interval = 7 * 24 * time.Hour
	}
	if opts.CheckEvery <= 0 {
		opts.CheckEvery = 24 * time.Hour
	}
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = 90
	}

	return &OptimizeWorker{
		db:       db,
		candles:  candles,
		opts:     opts,
		stopChan: make(chan struct{}),
	}
}

// Run 运行优化任务，阻塞直到ctx取消或Stop被调用
func (w *OptimizeWorker) Run(ctx context.Context) error {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("OptimizeWorker")

	logger.Info(fmt.Sprintf("开始参数优化任务: interval=%s, lookback=%d天",
		w.opts.Interval, w.opts.LookbackDays))

	// 启动时先扫一轮
	w.runOnce(ctx)

	ticker := time.NewTicker(w.opts.CheckEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-w.stopChan:
			return nil

		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// Stop 停止优化任务
func (w *OptimizeWorker) Stop() {
	close(w.stopChan)
}

// runOnce 扫描所有AI策略交易，对参数过期的执行优化
func (w *OptimizeWorker) runOnce(ctx context.Context) {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("OptimizeWorker")

	trades, err := w.db.GetActiveTrades(ctx)
	if err != nil {
		logger.Error("获取活跃交易失败: " + err.Error())
		return
	}

	for _, trade := range trades {
		if ctx.Err() != nil {
			return
		}
		if trade.StrategyName != StrategyAI {
			continue
		}

		record, err := w.db.GetParameters(ctx, trade.ID)
		if err != nil {
			logger.Error(fmt.Sprintf("读取策略参数失败: trade=%d, err=%s", trade.ID, err.Error()))
			continue
		}
		if record != nil && time.Since(record.OptimizedAt) < w.opts.Interval {
			continue
		}

		if err := w.optimizeTrade(ctx, trade); err != nil {
			logger.Error(fmt.Sprintf("参数优化失败: trade=%d, err=%s", trade.ID, err.Error()))
		}
	}
}

// optimizeTrade 对单个交易跑网格搜索并落库
func (w *OptimizeWorker) optimizeTrade(ctx context.Context, trade *database.ActiveTrade) error {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix(fmt.Sprintf("Trade-%d", trade.ID))

	tf := w.opts.Timeframe
	if trade.Timeframe != "" {
		parsed, err := timeframes.ParseTimeframe(trade.Timeframe)
		if err != nil {
			return fmt.Errorf("invalid timeframe %q: %w", trade.Timeframe, err)
		}
		tf = parsed
	}

	points, err := tf.CalculateDataPoints(w.opts.LookbackDays)
	if err != nil {
		return err
	}

	candles, err := w.candles.GetCandles(ctx, trade.Symbol, tf, points)
	if err != nil {
		return fmt.Errorf("failed to load candles: %w", err)
	}
	if len(candles) < signal.MinCandles {
		return fmt.Errorf("insufficient candles: %d, need %d", len(candles), signal.MinCandles)
	}

	logger.Info(fmt.Sprintf("开始优化: symbol=%s, timeframe=%s, candles=%d",
		trade.Symbol, tf, len(candles)))

	opt := optimizer.NewOptimizer(tf)
	result, err := opt.Optimize(ctx, candles, trade.AccumulatingBase)
	if err != nil {
		return err
	}

	paramsJSON, err := result.BestParams.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize parameters: %w", err)
	}

	if err := w.db.SaveParameters(ctx, trade.ID, paramsJSON, result.BestScore); err != nil {
		return err
	}

	weightsJSON, err := json.Marshal(result.BestResult.IndicatorWeights)
	if err != nil {
		return fmt.Errorf("failed to serialize weights: %w", err)
	}

	best := result.BestResult
	record := &database.BacktestRecord{
		TradeID:                 trade.ID,
		Symbol:                  trade.Symbol,
		TotalTrades:             best.TotalTrades,
		WinningTrades:           best.WinningTrades,
		LosingTrades:            best.LosingTrades,
		WinRatePercent:          best.WinRatePercent,
		TotalReturnPercent:      best.TotalReturnPercent,
		SharpeRatio:             best.SharpeRatio,
		MaxDrawdownPercent:      best.MaxDrawdownPercent,
		AvgTradeDurationMinutes: float64(best.AvgTradeDurationMinutes),
		MarketRegime:            best.MarketRegime.String(),
		ParametersJSON:          paramsJSON,
		IndicatorWeightsJSON:    string(weightsJSON),
	}
	if err := w.db.SaveBacktestResult(ctx, record); err != nil {
		return err
	}

	logger.Info(fmt.Sprintf("优化完成并落库: fitness=%.4f, trades=%d, winRate=%.1f%%",
		result.BestScore, best.TotalTrades, best.WinRatePercent))
	return nil
}
