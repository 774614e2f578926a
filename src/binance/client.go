package binance

import (
	"context"
	"fmt"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"

	"dexbot/src/models"
	"dexbot/src/timeframes"
)

// Client 币安行情客户端封装（只读行情，不做下单）
type Client struct {
	client *binance.Client
}

// NewClient 创建新的币安行情客户端
func NewClient(apiKey, secretKey, baseURL string) *Client {
	client := binance.NewClient(apiKey, secretKey)
	if baseURL != "" {
		client.BaseURL = baseURL
	}

	return &Client{client: client}
}

// maxKlineLimit 币安K线接口单次请求上限
const maxKlineLimit = 1000

// GetCandles 获取K线数据
// limit超过单次请求上限时按时间向前分页拉取；
// 币安没有10m周期，10m由两根5m K线聚合而成
func (c *Client) GetCandles(ctx context.Context, symbol string, tf timeframes.Timeframe, limit int) ([]*models.Candle, error) {
	interval := tf.GetBinanceInterval()

	fetchLimit := limit
	if tf == timeframes.Timeframe10m {
		fetchLimit = limit * 2
	}

	var all []*models.Candle
	var endTime int64
	for len(all) < fetchLimit {
		batch := fetchLimit - len(all)
		if batch > maxKlineLimit {
			batch = maxKlineLimit
		}

		candles, err := c.fetchCandles(ctx, symbol, interval, endTime, batch)
		if err != nil {
			return nil, err
		}
		if len(candles) == 0 {
			break
		}

		all = append(candles, all...)
		endTime = candles[0].Timestamp - 1

		// 返回不足一批说明历史数据已拉完
		if len(candles) < batch {
			break
		}
	}

	if tf == timeframes.Timeframe10m {
		dur, err := tf.GetDuration()
		if err != nil {
			return nil, err
		}
		all = aggregatePairs(all, dur.Milliseconds())
	}

	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

// fetchCandles 调用币安K线接口并转换为内部K线格式
func (c *Client) fetchCandles(ctx context.Context, symbol, interval string, endTime int64, limit int) ([]*models.Candle, error) {
	service := c.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval)

	if limit > 0 {
		service = service.Limit(limit)
	}
	if endTime > 0 {
		service = service.EndTime(endTime)
	}

	klines, err := service.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get klines: %w", err)
	}

	result := make([]*models.Candle, len(klines))
	for i, kline := range klines {
		open, _ := decimal.NewFromString(kline.Open)
		high, _ := decimal.NewFromString(kline.High)
		low, _ := decimal.NewFromString(kline.Low)
		close, _ := decimal.NewFromString(kline.Close)
		volume, _ := decimal.NewFromString(kline.Volume)

		result[i] = &models.Candle{
			Timestamp: kline.OpenTime,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    volume,
		}
	}

	return result, nil
}

// GetCurrentPrice 获取当前价格
func (c *Client) GetCurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	prices, err := c.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get current price: %w", err)
	}

	if len(prices) == 0 {
		return decimal.Zero, fmt.Errorf("no price data for symbol %s", symbol)
	}

	price, err := decimal.NewFromString(prices[0].Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse price: %w", err)
	}

	return price, nil
}

// Ping 测试与币安服务器的连通性
func (c *Client) Ping(ctx context.Context) error {
	return c.client.NewPingService().Do(ctx)
}

// GetServerTime 获取币安服务器时间
func (c *Client) GetServerTime(ctx context.Context) (time.Time, error) {
	ms, err := c.client.NewServerTimeService().Do(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get server time: %w", err)
	}
	return time.UnixMilli(ms), nil
}

// aggregatePairs 把细粒度K线按目标周期对齐合并
func aggregatePairs(candles []*models.Candle, bucketMs int64) []*models.Candle {
	if len(candles) == 0 || bucketMs <= 0 {
		return candles
	}

	var merged []*models.Candle
	var current *models.Candle
	var currentBucket int64 = -1

	for _, candle := range candles {
		bucket := candle.Timestamp - candle.Timestamp%bucketMs
		if bucket != currentBucket {
			current = &models.Candle{
				Timestamp: bucket,
				Open:      candle.Open,
				High:      candle.High,
				Low:       candle.Low,
				Close:     candle.Close,
				Volume:    candle.Volume,
			}
			merged = append(merged, current)
			currentBucket = bucket
			continue
		}

		if candle.High.GreaterThan(current.High) {
			current.High = candle.High
		}
		if candle.Low.LessThan(current.Low) {
			current.Low = candle.Low
		}
		current.Close = candle.Close
		current.Volume = current.Volume.Add(candle.Volume)
	}

	return merged
}
