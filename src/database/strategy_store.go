package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ActiveTrade 活跃交易记录 - 信号评估循环的工作单元
type ActiveTrade struct {
	ID                int64      `json:"id"`
	Symbol            string     `json:"symbol"`
	Timeframe         string     `json:"timeframe"`
	StrategyName      string     `json:"strategy_name"`
	IndicatorSettings string     `json:"indicator_settings"`
	AccumulatingBase  bool       `json:"accumulating_base"`
	Status            string     `json:"status"`
	TradeSignal       string     `json:"trade_signal"`
	LastSignalAt      *time.Time `json:"last_signal_updated_at"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ParameterRecord AI策略参数记录
type ParameterRecord struct {
	TradeID        int64     `json:"trade_id"`
	ParametersJSON string    `json:"parameters_json"`
	FitnessScore   float64   `json:"fitness_score"`
	OptimizedAt    time.Time `json:"optimized_at"`
}

// BacktestRecord 回测结果记录
type BacktestRecord struct {
	ID                      int64     `json:"id"`
	TradeID                 int64     `json:"trade_id"`
	Symbol                  string    `json:"symbol"`
	TotalTrades             int       `json:"total_trades"`
	WinningTrades           int       `json:"winning_trades"`
	LosingTrades            int       `json:"losing_trades"`
	WinRatePercent          float64   `json:"win_rate_percent"`
	TotalReturnPercent      float64   `json:"total_return_percent"`
	SharpeRatio             float64   `json:"sharpe_ratio"`
	MaxDrawdownPercent      float64   `json:"max_drawdown_percent"`
	AvgTradeDurationMinutes float64   `json:"avg_trade_duration_minutes"`
	MarketRegime            string    `json:"market_regime"`
	ParametersJSON          string    `json:"parameters_json"`
	IndicatorWeightsJSON    string    `json:"indicator_weights_json"`
	CreatedAt               time.Time `json:"created_at"`
}

// GetActiveTrades 获取所有活跃交易
func (p *PostgresDB) GetActiveTrades(ctx context.Context) ([]*ActiveTrade, error) {
	query := `
		SELECT id, symbol, timeframe, strategy_name, indicator_settings,
		       accumulating_base, status, COALESCE(trade_signal, ''), last_signal_updated_at, created_at
		FROM active_trades
		WHERE status = 'active'
		ORDER BY id ASC
	`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active trades: %w", err)
	}
	defer rows.Close()

	var trades []*ActiveTrade
	for rows.Next() {
		trade := &ActiveTrade{}
		var lastSignalAt sql.NullTime
		err := rows.Scan(
			&trade.ID, &trade.Symbol, &trade.Timeframe, &trade.StrategyName,
			&trade.IndicatorSettings, &trade.AccumulatingBase, &trade.Status,
			&trade.TradeSignal, &lastSignalAt, &trade.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan active trade: %w", err)
		}
		if lastSignalAt.Valid {
			t := lastSignalAt.Time
			trade.LastSignalAt = &t
		}
		trades = append(trades, trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate active trades: %w", err)
	}

	return trades, nil
}

// UpdateTradeSignal 更新交易的当前信号
func (p *PostgresDB) UpdateTradeSignal(ctx context.Context, tradeID int64, signal string) error {
	query := `
		UPDATE active_trades
		SET trade_signal = $2, last_signal_updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	result, err := p.db.ExecContext(ctx, query, tradeID, signal)
	if err != nil {
		return fmt.Errorf("failed to update trade signal: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("trade %d not found", tradeID)
	}

	return nil
}

// SaveParameters 保存交易的最优策略参数（按trade_id覆盖）
func (p *PostgresDB) SaveParameters(ctx context.Context, tradeID int64, parametersJSON string, fitnessScore float64) error {
	query := `
		INSERT INTO ai_strategy_parameters (trade_id, parameters_json, fitness_score, optimized_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (trade_id)
		DO UPDATE SET
			parameters_json = EXCLUDED.parameters_json,
			fitness_score = EXCLUDED.fitness_score,
			optimized_at = CURRENT_TIMESTAMP
	`

	if _, err := p.db.ExecContext(ctx, query, tradeID, parametersJSON, fitnessScore); err != nil {
		return fmt.Errorf("failed to save parameters: %w", err)
	}
	return nil
}

// GetParameters 获取交易的最优策略参数，不存在时返回nil
func (p *PostgresDB) GetParameters(ctx context.Context, tradeID int64) (*ParameterRecord, error) {
	query := `
		SELECT trade_id, parameters_json, fitness_score, optimized_at
		FROM ai_strategy_parameters
		WHERE trade_id = $1
	`

	record := &ParameterRecord{}
	err := p.db.QueryRowContext(ctx, query, tradeID).Scan(
		&record.TradeID, &record.ParametersJSON, &record.FitnessScore, &record.OptimizedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query parameters: %w", err)
	}

	return record, nil
}

// SaveBacktestResult 保存回测结果
func (p *PostgresDB) SaveBacktestResult(ctx context.Context, record *BacktestRecord) error {
	query := `
		INSERT INTO ai_backtest_results (
			trade_id, symbol, total_trades, winning_trades, losing_trades,
			win_rate_percent, total_return_percent, sharpe_ratio,
			max_drawdown_percent, avg_trade_duration_minutes,
			market_regime, parameters_json, indicator_weights_json
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := p.db.ExecContext(ctx, query,
		record.TradeID, record.Symbol,
		record.TotalTrades, record.WinningTrades, record.LosingTrades,
		record.WinRatePercent, record.TotalReturnPercent, record.SharpeRatio,
		record.MaxDrawdownPercent, record.AvgTradeDurationMinutes,
		record.MarketRegime, record.ParametersJSON, record.IndicatorWeightsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save backtest result: %w", err)
	}
	return nil
}

// GetLatestBacktest 获取交易最近一次的回测结果，不存在时返回nil
func (p *PostgresDB) GetLatestBacktest(ctx context.Context, tradeID int64) (*BacktestRecord, error) {
	query := `
		SELECT id, trade_id, symbol, total_trades, winning_trades, losing_trades,
		       win_rate_percent, total_return_percent, sharpe_ratio,
		       max_drawdown_percent, avg_trade_duration_minutes,
		       market_regime, parameters_json, indicator_weights_json, created_at
		FROM ai_backtest_results
		WHERE trade_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	record := &BacktestRecord{}
	err := p.db.QueryRowContext(ctx, query, tradeID).Scan(
		&record.ID, &record.TradeID, &record.Symbol,
		&record.TotalTrades, &record.WinningTrades, &record.LosingTrades,
		&record.WinRatePercent, &record.TotalReturnPercent, &record.SharpeRatio,
		&record.MaxDrawdownPercent, &record.AvgTradeDurationMinutes,
		&record.MarketRegime, &record.ParametersJSON, &record.IndicatorWeightsJSON,
		&record.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query backtest result: %w", err)
	}

	return record, nil
}
