package signal

import (
	"dexbot/src/indicators"
	"dexbot/src/models"
)

// Decision 离散交易决策标签，供外部执行层消费
type Decision string

const (
	DecisionBuy              Decision = "BUY"
	DecisionSell             Decision = "SELL"
	DecisionHold             Decision = "HOLD"
	DecisionInsufficientData Decision = "INSUFFICIENT_DATA" // K线数量不足
	DecisionConfigError      Decision = "CONFIG_ERROR"      // 指标设置解析失败
	DecisionProcessError     Decision = "PROCESS_ERROR"     // 处理过程中的未知失败
)

// ManualStrategy 手动策略 - 非AI的简单投票聚合
// 用户配置的每个指标投出+1/-1/0，求和决定方向；
// 与加权综合评分的AI策略是并存的两个独立产品档位
type ManualStrategy struct {
	specs []*indicators.Spec
}

// NewManualStrategy 从指标设置JSON创建手动策略
func NewManualStrategy(settingsJSON string) (*ManualStrategy, error) {
	specs, err := indicators.ParseSettings(settingsJSON)
	if err != nil {
		return nil, err
	}
	return &ManualStrategy{specs: specs}, nil
}

// IndicatorCount 配置的投票指标数量
func (m *ManualStrategy) IndicatorCount() int {
	return len(m.specs)
}

// Evaluate 投票聚合
// 单个指标失败按0票处理，不影响其他指标；没有配置任何指标时持有
func (m *ManualStrategy) Evaluate(candles []*models.Candle) Decision {
	if len(m.specs) == 0 {
		return DecisionHold
	}

	totalVote := 0
	for _, spec := range m.specs {
		voter := spec.Build()
		vote, err := voter.Vote(candles)
		if err != nil {
			vote = 0
		}
		totalVote += vote
	}

	switch {
	case totalVote > 0:
		return DecisionBuy
	case totalVote < 0:
		return DecisionSell
	default:
		return DecisionHold
	}
}
