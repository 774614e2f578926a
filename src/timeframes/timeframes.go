package timeframes

import (
	"fmt"
	"time"
)

// Timeframe K线周期枚举
type Timeframe string

const (
	// 支持的K线周期
	Timeframe1m  Timeframe = "1m"  // 1分钟
	Timeframe5m  Timeframe = "5m"  // 5分钟
	Timeframe10m Timeframe = "10m" // 10分钟（链上价格历史的默认聚合周期）
	Timeframe15m Timeframe = "15m" // 15分钟
	Timeframe30m Timeframe = "30m" // 30分钟
	Timeframe1h  Timeframe = "1h"  // 1小时
	Timeframe4h  Timeframe = "4h"  // 4小时
	Timeframe1d  Timeframe = "1d"  // 1天
)

// GetDuration 获取K线周期对应的Duration
func (tf Timeframe) GetDuration() (time.Duration, error) {
	switch tf {
	case Timeframe1m:
		return time.Minute, nil
	case Timeframe5m:
		return 5 * time.Minute, nil
	case Timeframe10m:
		return 10 * time.Minute, nil
	case Timeframe15m:
		return 15 * time.Minute, nil
	case Timeframe30m:
		return 30 * time.Minute, nil
	case Timeframe1h:
		return time.Hour, nil
	case Timeframe4h:
		return 4 * time.Hour, nil
	case Timeframe1d:
		return 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unsupported timeframe: %s", tf)
	}
}

// GetMinutes 获取K线周期对应的分钟数
func (tf Timeframe) GetMinutes() (int64, error) {
	duration, err := tf.GetDuration()
	if err != nil {
		return 0, err
	}
	return int64(duration.Minutes()), nil
}

// String 返回字符串表示
func (tf Timeframe) String() string {
	return string(tf)
}

// IsValid 检查K线周期是否有效
func (tf Timeframe) IsValid() bool {
	_, err := tf.GetDuration()
	return err == nil
}

// ParseTimeframe 解析K线周期字符串
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(s)
	if !tf.IsValid() {
		return "", fmt.Errorf("invalid timeframe: %s", s)
	}
	return tf, nil
}

// GetBinanceInterval 获取币安API对应的时间间隔字符串
// 10m不是币安原生周期，降级为5m由上层聚合
func (tf Timeframe) GetBinanceInterval() string {
	if tf == Timeframe10m {
		return "5m"
	}
	return string(tf)
}

// CalculateDataPoints 计算指定天数内的K线数量
func (tf Timeframe) CalculateDataPoints(days int) (int, error) {
	duration, err := tf.GetDuration()
	if err != nil {
		return 0, err
	}

	totalDuration := time.Duration(days) * 24 * time.Hour
	return int(totalDuration / duration), nil
}
