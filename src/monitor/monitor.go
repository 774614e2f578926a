package monitor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xpwu/go-log/log"

	"dexbot/src/database"
	"dexbot/src/models"
	"dexbot/src/signal"
	"dexbot/src/timeframes"
)

// StrategyAI AI策略在active_trades.strategy_name中的标识
const StrategyAI = "ai_strategy"

// Options 信号评估循环配置
type Options struct {
	Interval            time.Duration        // 评估周期
	CandleLimit         int                  // 每次评估拉取的K线数量
	Timeframe           timeframes.Timeframe // 交易未指定时的默认周期
	ExecutionThreshold  float64              // 默认执行阈值（无持久化参数时使用）
	ConfidenceThreshold float64              // 默认置信度阈值
	MinFlipInterval     time.Duration        // 最小翻转间隔，防止信号抖动
}

// Monitor 信号评估循环
// 周期性为每个活跃交易计算决策标签并写回数据库，
// 单个交易的失败只影响它自己的标签，不中断整轮评估
type Monitor struct {
	db      *database.PostgresDB
	candles *database.CandleManager
	engine  *signal.Engine
	opts    Options

	mu         sync.Mutex
	isRunning  bool
	stopChan   chan struct{}
	evaluating int32
}

// NewMonitor 创建信号评估循环
func NewMonitor(db *database.PostgresDB, candles *database.CandleManager, opts Options) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = 300 * time.Second
	}
	if opts.CandleLimit <= 0 {
		opts.CandleLimit = 150
	}

	return &Monitor{
		db:       db,
		candles:  candles,
		engine:   signal.NewEngine(),
		opts:     opts,
		stopChan: make(chan struct{}),
	}
}

// Run 运行评估循环，阻塞直到ctx取消或Stop被调用
func (m *Monitor) Run(ctx context.Context) error {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("Monitor")

	m.mu.Lock()
	if m.isRunning {
		m.mu.Unlock()
		return fmt.Errorf("monitor already running")
	}
	m.isRunning = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.isRunning = false
		m.mu.Unlock()
	}()

	logger.Info(fmt.Sprintf("开始信号评估循环: interval=%s", m.opts.Interval))

	// 启动时先跑一轮，不等第一个tick
	m.evaluateAll(ctx)

	ticker := time.NewTicker(m.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("收到停止信号，退出评估循环")
			return ctx.Err()

		case <-m.stopChan:
			logger.Info("手动停止评估循环")
			return nil

		case <-ticker.C:
			m.evaluateAll(ctx)
		}
	}
}

// Stop 停止评估循环
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.isRunning {
		close(m.stopChan)
	}
}

// evaluateAll 评估所有活跃交易
// 单飞保护：上一轮还在进行时跳过本次tick，不排队堆积
func (m *Monitor) evaluateAll(ctx context.Context) {
	if !atomic.CompareAndSwapInt32(&m.evaluating, 0, 1) {
		_, logger := log.WithCtx(ctx)
		logger.Warning("上一轮评估尚未结束，跳过本轮")
		return
	}
	defer atomic.StoreInt32(&m.evaluating, 0)

	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("Monitor")

	trades, err := m.db.GetActiveTrades(ctx)
	if err != nil {
		logger.Error("获取活跃交易失败: " + err.Error())
		return
	}
	if len(trades) == 0 {
		return
	}

	for _, trade := range trades {
		if ctx.Err() != nil {
			return
		}

		decision := m.evaluateTrade(ctx, trade)
		decision = m.applyFlipGuard(trade, decision)

		if string(decision) == trade.TradeSignal {
			continue
		}
		if err := m.db.UpdateTradeSignal(ctx, trade.ID, string(decision)); err != nil {
			logger.Error(fmt.Sprintf("更新信号失败: trade=%d, err=%s", trade.ID, err.Error()))
		} else {
			logger.Info(fmt.Sprintf("信号更新: trade=%d, symbol=%s, %s -> %s",
				trade.ID, trade.Symbol, trade.TradeSignal, decision))
		}
	}
}

// evaluateTrade 评估单个交易，任何失败都折叠为错误标签而不是中断
func (m *Monitor) evaluateTrade(ctx context.Context, trade *database.ActiveTrade) signal.Decision {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix(fmt.Sprintf("Trade-%d", trade.ID))

	tf := m.opts.Timeframe
	if trade.Timeframe != "" {
		parsed, err := timeframes.ParseTimeframe(trade.Timeframe)
		if err != nil {
			logger.Error("无效的K线周期: " + trade.Timeframe)
			return signal.DecisionConfigError
		}
		tf = parsed
	}

	candles, err := m.candles.GetCandles(ctx, trade.Symbol, tf, m.opts.CandleLimit)
	if err != nil {
		logger.Error("获取K线数据失败: " + err.Error())
		return signal.DecisionProcessError
	}

	if trade.StrategyName == StrategyAI {
		return m.evaluateAI(ctx, trade, candles)
	}
	return m.evaluateManual(ctx, trade, candles)
}

// evaluateAI AI综合信号路径
func (m *Monitor) evaluateAI(ctx context.Context, trade *database.ActiveTrade, candles []*models.Candle) signal.Decision {
	ctx, logger := log.WithCtx(ctx)

	if len(candles) < signal.MinCandles {
		return signal.DecisionInsufficientData
	}

	params := m.loadParameters(ctx, trade.ID)
	if params == nil {
		return signal.DecisionConfigError
	}

	eval := m.engine.Evaluate(candles, params)
	logger.Debug(fmt.Sprintf("综合评估: score=%.4f, confidence=%.4f, regime=%s",
		eval.Score, eval.Confidence, eval.Regime))

	return signal.Decide(eval, params)
}

// evaluateManual 手动投票策略路径
func (m *Monitor) evaluateManual(ctx context.Context, trade *database.ActiveTrade, candles []*models.Candle) signal.Decision {
	_, logger := log.WithCtx(ctx)

	strategy, err := signal.NewManualStrategy(trade.IndicatorSettings)
	if err != nil {
		logger.Error("指标设置解析失败: " + err.Error())
		return signal.DecisionConfigError
	}
	return strategy.Evaluate(candles)
}

// loadParameters 加载交易的持久化参数，没有时退回默认参数
// 持久化参数损坏时返回nil，由调用方折叠为CONFIG_ERROR
func (m *Monitor) loadParameters(ctx context.Context, tradeID int64) *signal.ParameterSet {
	ctx, logger := log.WithCtx(ctx)

	record, err := m.db.GetParameters(ctx, tradeID)
	if err != nil {
		logger.Error("加载策略参数失败: " + err.Error())
		// 数据库读失败时仍可用默认参数评估
		record = nil
	}

	if record == nil {
		params := signal.DefaultParameterSet()
		if m.opts.ExecutionThreshold > 0 {
			params.ExecutionThreshold = m.opts.ExecutionThreshold
		}
		if m.opts.ConfidenceThreshold > 0 {
			params.ConfidenceThreshold = m.opts.ConfidenceThreshold
		}
		return params
	}

	params, err := signal.ParseParameterSet(record.ParametersJSON)
	if err != nil {
		logger.Error("策略参数解析失败: " + err.Error())
		return nil
	}
	return params
}

// applyFlipGuard 最小翻转间隔保护
// 距上次信号更新不足间隔时，BUY/SELL之间的直接翻转保持原信号
func (m *Monitor) applyFlipGuard(trade *database.ActiveTrade, decision signal.Decision) signal.Decision {
	if m.opts.MinFlipInterval <= 0 || trade.LastSignalAt == nil {
		return decision
	}

	prev := signal.Decision(trade.TradeSignal)
	flip := (prev == signal.DecisionBuy && decision == signal.DecisionSell) ||
		(prev == signal.DecisionSell && decision == signal.DecisionBuy)

	if flip && time.Since(*trade.LastSignalAt) < m.opts.MinFlipInterval {
		return prev
	}
	return decision
}
