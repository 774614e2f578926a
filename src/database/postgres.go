package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"dexbot/src/models"
)

// PostgresDB PostgreSQL数据库连接
type PostgresDB struct {
	db *sql.DB
}

// NewPostgresDB 创建PostgreSQL数据库连接
func NewPostgresDB(cfg Config) (*PostgresDB, error) {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	psqlInfo := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslmode)

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 测试连接
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// 设置连接池参数
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 5
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresDB{db: db}, nil
}

// Close 关闭数据库连接
func (p *PostgresDB) Close() error {
	return p.db.Close()
}

// InitSchema 初始化数据库表结构
func (p *PostgresDB) InitSchema(ctx context.Context) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS candles (
			id BIGSERIAL PRIMARY KEY,
			symbol VARCHAR(32) NOT NULL,
			timeframe VARCHAR(8) NOT NULL,
			open_time BIGINT NOT NULL,
			open_price DECIMAL(30,10) NOT NULL,
			high_price DECIMAL(30,10) NOT NULL,
			low_price DECIMAL(30,10) NOT NULL,
			close_price DECIMAL(30,10) NOT NULL,
			volume DECIMAL(30,10) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (symbol, timeframe, open_time)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candles_symbol_tf_time
			ON candles (symbol, timeframe, open_time)`,
		`CREATE TABLE IF NOT EXISTS active_trades (
			id BIGSERIAL PRIMARY KEY,
			symbol VARCHAR(32) NOT NULL,
			timeframe VARCHAR(8) NOT NULL DEFAULT '10m',
			strategy_name VARCHAR(64) NOT NULL,
			indicator_settings TEXT NOT NULL DEFAULT '{}',
			accumulating_base BOOLEAN NOT NULL DEFAULT TRUE,
			status VARCHAR(16) NOT NULL DEFAULT 'active',
			trade_signal VARCHAR(32),
			last_signal_updated_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS ai_strategy_parameters (
			trade_id BIGINT PRIMARY KEY,
			parameters_json TEXT NOT NULL,
			fitness_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			optimized_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS ai_backtest_results (
			id BIGSERIAL PRIMARY KEY,
			trade_id BIGINT NOT NULL,
			symbol VARCHAR(32) NOT NULL,
			total_trades INT NOT NULL DEFAULT 0,
			winning_trades INT NOT NULL DEFAULT 0,
			losing_trades INT NOT NULL DEFAULT 0,
			win_rate_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
			total_return_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
			sharpe_ratio DOUBLE PRECISION NOT NULL DEFAULT 0,
			max_drawdown_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
			avg_trade_duration_minutes DOUBLE PRECISION NOT NULL DEFAULT 0,
			market_regime VARCHAR(32) NOT NULL DEFAULT 'unknown',
			parameters_json TEXT NOT NULL DEFAULT '{}',
			indicator_weights_json TEXT NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, schema := range schemas {
		if _, err := p.db.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("failed to init schema: %w", err)
		}
	}
	return nil
}

// SaveCandles 批量保存K线数据
func (p *PostgresDB) SaveCandles(ctx context.Context, symbol, timeframe string, candles []*models.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO candles (
			symbol, timeframe, open_time,
			open_price, high_price, low_price, close_price, volume
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol, timeframe, open_time)
		DO UPDATE SET
			open_price = EXCLUDED.open_price,
			high_price = EXCLUDED.high_price,
			low_price = EXCLUDED.low_price,
			close_price = EXCLUDED.close_price,
			volume = EXCLUDED.volume,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, candle := range candles {
		_, err = stmt.ExecContext(ctx,
			symbol, timeframe, candle.Timestamp,
			candle.Open, candle.High, candle.Low, candle.Close, candle.Volume,
		)
		if err != nil {
			return fmt.Errorf("failed to insert candle: %w", err)
		}
	}

	return tx.Commit()
}

// GetCandles 获取最新的K线数据（按时间升序返回）
func (p *PostgresDB) GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]*models.Candle, error) {
	query := `
		SELECT open_time, open_price, high_price, low_price, close_price, volume
		FROM candles
		WHERE symbol = $1 AND timeframe = $2
		ORDER BY open_time DESC
		LIMIT $3
	`

	rows, err := p.db.QueryContext(ctx, query, symbol, timeframe, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query candles: %w", err)
	}
	defer rows.Close()

	var candles []*models.Candle
	for rows.Next() {
		candle := &models.Candle{}
		err := rows.Scan(
			&candle.Timestamp,
			&candle.Open, &candle.High, &candle.Low, &candle.Close, &candle.Volume,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candle: %w", err)
		}
		candles = append(candles, candle)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candles: %w", err)
	}

	// 查询按时间倒序取最新limit条，返回前翻转为升序
	for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
		candles[i], candles[j] = candles[j], candles[i]
	}

	return candles, nil
}

// GetCandlesSince 获取指定时间之后的K线数据（按时间升序返回）
func (p *PostgresDB) GetCandlesSince(ctx context.Context, symbol, timeframe string, since int64) ([]*models.Candle, error) {
	query := `
		SELECT open_time, open_price, high_price, low_price, close_price, volume
		FROM candles
		WHERE symbol = $1 AND timeframe = $2 AND open_time >= $3
		ORDER BY open_time ASC
	`

	rows, err := p.db.QueryContext(ctx, query, symbol, timeframe, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query candles: %w", err)
	}
	defer rows.Close()

	var candles []*models.Candle
	for rows.Next() {
		candle := &models.Candle{}
		err := rows.Scan(
			&candle.Timestamp,
			&candle.Open, &candle.High, &candle.Low, &candle.Close, &candle.Volume,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candle: %w", err)
		}
		candles = append(candles, candle)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candles: %w", err)
	}

	return candles, nil
}
