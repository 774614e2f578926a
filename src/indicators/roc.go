package indicators

import (
	"math"

	"dexbot/src/models"
)

// ROC 变动速率指标 - 衡量价格在回看周期内的百分比变化
type ROC struct {
	Period    int     // 回看周期，通常为12
	Threshold float64 // 强信号阈值（百分比），默认5%
}

// NewROC 创建ROC指标（默认12周期，5%阈值）
func NewROC() *ROC {
	return &ROC{Period: 12, Threshold: 5.0}
}

// NewROCWithParams 按指定参数创建ROC指标
func NewROCWithParams(period int, threshold float64) *ROC {
	return &ROC{Period: period, Threshold: threshold}
}

// Name 指标名称
func (r *ROC) Name() string { return "roc" }

// Calculate 计算ROC百分比序列（窗口不足处为NaN）
func (r *ROC) Calculate(candles []*models.Candle) ([]float64, error) {
	if r.Period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < r.Period+1 {
		return nil, ErrInsufficientData
	}

	closes := models.Closes(candles)
	roc := make([]float64, len(closes))
	for i := range closes {
		if i < r.Period || closes[i-r.Period] == 0 {
			roc[i] = math.NaN()
			continue
		}
		roc[i] = (closes[i] - closes[i-r.Period]) / closes[i-r.Period] * 100
	}
	return roc, nil
}

// Score 生成[-1,1]评分
// 零轴穿越（动量翻转）=±0.8；阈值内按线性弱信号，阈值外按强信号饱和到±1
func (r *ROC) Score(candles []*models.Candle) (float64, error) {
	roc, err := r.Calculate(candles)
	if err != nil {
		return 0, err
	}

	n := len(roc)
	current := roc[n-1]
	if math.IsNaN(current) {
		return 0, ErrDegenerateInput
	}

	// 零轴穿越检测
	if n >= 2 && !math.IsNaN(roc[n-2]) {
		prev := roc[n-2]
		if current > 0 && prev <= 0 {
			return 0.8, nil
		}
		if current < 0 && prev >= 0 {
			return -0.8, nil
		}
	}

	var score float64
	if math.Abs(current) <= r.Threshold {
		// 阈值内 - 弱信号
		score = current / r.Threshold * 0.5
	} else if current > 0 {
		score = 0.5 + math.Min((current-r.Threshold)/r.Threshold*0.5, 0.5)
	} else {
		score = -0.5 - math.Min((math.Abs(current)-r.Threshold)/r.Threshold*0.5, 0.5)
	}

	return clamp(sanitize(score), -1, 1), nil
}
