package database

import (
	"context"

	"github.com/xpwu/go-log/log"

	"dexbot/src/models"
	"dexbot/src/timeframes"
)

// CandleSource 行情数据源（网络端）
type CandleSource interface {
	GetCandles(ctx context.Context, symbol string, tf timeframes.Timeframe, limit int) ([]*models.Candle, error)
}

// CandleManager K线数据管理器
type CandleManager struct {
	db     *PostgresDB
	source CandleSource
}

// NewCandleManager 创建K线数据管理器
func NewCandleManager(db *PostgresDB, source CandleSource) *CandleManager {
	return &CandleManager{
		db:     db,
		source: source,
	}
}

// GetCandles 智能获取K线数据（优先数据库，缺失时从网络补充）
func (cm *CandleManager) GetCandles(ctx context.Context, symbol string, tf timeframes.Timeframe, limit int) ([]*models.Candle, error) {
	ctx, logger := log.WithCtx(ctx)
	logger.PushPrefix("CandleManager")

	// 1. 先从数据库获取现有数据
	dbCandles, err := cm.db.GetCandles(ctx, symbol, tf.String(), limit)
	if err != nil {
		logger.Error("从数据库获取K线数据失败: " + err.Error())
		// 数据库失败，直接从网络获取
		return cm.getFromNetwork(ctx, symbol, tf, limit)
	}

	// 2. 检查数据是否足够
	if len(dbCandles) >= limit {
		return dbCandles[len(dbCandles)-limit:], nil
	}

	// 3. 数据不足，从网络补充
	logger.Info("数据库数据不足，从网络补充")

	var lastTime int64
	if len(dbCandles) > 0 {
		lastTime = dbCandles[len(dbCandles)-1].Timestamp
	}

	networkCandles, err := cm.getFromNetwork(ctx, symbol, tf, limit)
	if err != nil {
		logger.Error("从网络获取K线数据失败: " + err.Error())
		// 网络也失败，返回数据库中已有的数据
		return dbCandles, nil
	}

	// 4. 合并数据并把新数据落库
	allCandles := mergeCandles(dbCandles, networkCandles, lastTime)

	newCandles := filterNewCandles(networkCandles, lastTime)
	if len(newCandles) > 0 {
		if err := cm.db.SaveCandles(ctx, symbol, tf.String(), newCandles); err != nil {
			logger.Error("保存K线数据到数据库失败: " + err.Error())
		}
	}

	// 5. 返回请求的数量
	if len(allCandles) > limit {
		return allCandles[len(allCandles)-limit:], nil
	}
	return allCandles, nil
}

// getFromNetwork 直接从网络获取并落库
func (cm *CandleManager) getFromNetwork(ctx context.Context, symbol string, tf timeframes.Timeframe, limit int) ([]*models.Candle, error) {
	candles, err := cm.source.GetCandles(ctx, symbol, tf, limit)
	if err != nil {
		return nil, err
	}

	if len(candles) > 0 {
		ctx, logger := log.WithCtx(ctx)
		if err := cm.db.SaveCandles(ctx, symbol, tf.String(), candles); err != nil {
			logger.Error("保存K线数据到数据库失败: " + err.Error())
		}
	}

	return candles, nil
}

// mergeCandles 按开盘时间合并数据库与网络数据
func mergeCandles(dbCandles, networkCandles []*models.Candle, lastTime int64) []*models.Candle {
	merged := make([]*models.Candle, len(dbCandles))
	copy(merged, dbCandles)

	for _, candle := range networkCandles {
		if candle.Timestamp > lastTime {
			merged = append(merged, candle)
		}
	}
	return merged
}

// filterNewCandles 过滤出数据库中没有的新数据
func filterNewCandles(candles []*models.Candle, lastTime int64) []*models.Candle {
	var fresh []*models.Candle
	for _, candle := range candles {
		if candle.Timestamp > lastTime {
			fresh = append(fresh, candle)
		}
	}
	return fresh
}
