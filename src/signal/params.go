package signal

import (
	"encoding/json"
	"fmt"
)

// WeightedIndicators 参与加权综合评分的七个指标
var WeightedIndicators = []string{"rsi", "macd", "bb", "ma_cross", "stoch_rsi", "roc", "ichimoku"}

// ParameterSet AI策略参数集 - 阈值与各指标基础权重
// 构造后不可变：优化产生新的ParameterSet而不是原地修改
type ParameterSet struct {
	ExecutionThreshold  float64            `json:"execution_threshold"`  // 执行阈值 ∈ (0,1)，综合评分超过才触发交易
	ConfidenceThreshold float64            `json:"confidence_threshold"` // 置信度阈值 ∈ (0,1)
	Weights             map[string]float64 `json:"weights"`              // 指标名 → 基础权重倍数
}

// DefaultParameterSet 默认参数集：0.6/0.7阈值，所有指标权重1.0
func DefaultParameterSet() *ParameterSet {
	weights := make(map[string]float64, len(WeightedIndicators))
	for _, name := range WeightedIndicators {
		weights[name] = 1.0
	}
	return &ParameterSet{
		ExecutionThreshold:  0.6,
		ConfidenceThreshold: 0.7,
		Weights:             weights,
	}
}

// Weight 获取指标的基础权重，未配置默认为1.0
func (p *ParameterSet) Weight(indicator string) float64 {
	if w, ok := p.Weights[indicator]; ok {
		return w
	}
	return 1.0
}

// Validate 校验参数合法性
func (p *ParameterSet) Validate() error {
	if p.ExecutionThreshold <= 0 || p.ExecutionThreshold >= 1 {
		return fmt.Errorf("execution_threshold must be in (0,1), got %v", p.ExecutionThreshold)
	}
	if p.ConfidenceThreshold <= 0 || p.ConfidenceThreshold >= 1 {
		return fmt.Errorf("confidence_threshold must be in (0,1), got %v", p.ConfidenceThreshold)
	}
	return nil
}

// MarshalJSON序列化走默认结构体标签；ParseParameterSet负责反序列化与校验

// ParseParameterSet 从JSON解析参数集并校验
func ParseParameterSet(data string) (*ParameterSet, error) {
	var p ParameterSet
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("invalid parameter set: %w", err)
	}
	if p.Weights == nil {
		p.Weights = DefaultParameterSet().Weights
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ToJSON 序列化为JSON字符串
func (p *ParameterSet) ToJSON() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal parameter set: %w", err)
	}
	return string(data), nil
}
