package signal

import (
	"math"

	"dexbot/src/indicators"
	"dexbot/src/models"
	"dexbot/src/regime"
)

// MinCandles 综合评分要求的最小K线数量
const MinCandles = 100

// ScoreResult 单个指标的评分结果
// Err非空时Score已归零，失败对测试可见但不会中断综合计算
type ScoreResult struct {
	Name  string
	Score float64
	Err   error
}

// Evaluation 综合评估结果
type Evaluation struct {
	Score      float64       // 综合评分 ∈ [-1,1]，正=看多，负=看空
	Confidence float64       // 置信度 ∈ [0,1]，指标间一致性越高越大
	Regime     regime.Regime // 评估时的市场状态
	Scores     []ScoreResult // 各指标明细（按WeightedIndicators顺序）
}

// scorer 单指标评分函数
type scorer func(candles []*models.Candle) (float64, error)

// Engine 综合信号引擎
// 将七个指标的评分按市场状态调整后的权重合成为一个综合评分，
// 无状态，可并发调用（每次调用独占自己的K线窗口）
type Engine struct {
	detector *regime.Detector
	scorers  map[string]scorer
}

// NewEngine 创建综合信号引擎（全部指标使用默认参数）
func NewEngine() *Engine {
	rsi := indicators.NewRSI()
	macd := indicators.NewMACD()
	bb := indicators.NewBollingerBands()
	maCross := indicators.NewMACrossover()
	stochRSI := indicators.NewStochasticRSI()
	roc := indicators.NewROC()
	ichimoku := indicators.NewIchimoku()

	return &Engine{
		detector: regime.NewDetector(),
		scorers: map[string]scorer{
			"rsi":       rsi.Score,
			"macd":      macd.Score,
			"bb":        bb.Score,
			"ma_cross":  maCross.Score,
			"stoch_rsi": stochRSI.Score,
			"roc":       roc.Score,
			"ichimoku":  ichimoku.Score,
		},
	}
}

// Evaluate 生成综合交易信号
// 步骤：检测市场状态 → 合成最终权重（基础权重×状态权重）→
// 逐指标评分（单指标失败归零不中断）→ 加权平均 → 一致性置信度
func (e *Engine) Evaluate(candles []*models.Candle, params *ParameterSet) *Evaluation {
	if len(candles) < MinCandles {
		return &Evaluation{Score: 0, Confidence: 0, Regime: regime.Unknown}
	}
	if params == nil {
		params = DefaultParameterSet()
	}

	marketRegime := e.detector.Detect(candles)
	regimeWeights := regime.GetWeights(marketRegime)

	results := make([]ScoreResult, 0, len(WeightedIndicators))
	totalWeight := 0.0
	weightedSum := 0.0
	scores := make([]float64, 0, len(WeightedIndicators))

	for _, name := range WeightedIndicators {
		weight := params.Weight(name) * regimeWeights[name]
		totalWeight += weight

		score, err := e.scorers[name](candles)
		if err != nil {
			score = 0
		}
		score = sanitize(score)

		results = append(results, ScoreResult{Name: name, Score: score, Err: err})
		scores = append(scores, score)
		weightedSum += score * weight
	}

	composite := 0.0
	if totalWeight > 0 {
		composite = weightedSum / totalWeight
	}
	composite = clamp(sanitize(composite), -1, 1)

	return &Evaluation{
		Score:      composite,
		Confidence: agreementConfidence(scores),
		Regime:     marketRegime,
		Scores:     results,
	}
}

// Decide 按参数阈值把综合评估折叠为离散决策
// 评分超过执行阈值且置信度超过置信阈值才给出方向，两个都是严格大于
func Decide(eval *Evaluation, params *ParameterSet) Decision {
	switch {
	case eval.Score > params.ExecutionThreshold && eval.Confidence > params.ConfidenceThreshold:
		return DecisionBuy
	case eval.Score < -params.ExecutionThreshold && eval.Confidence > params.ConfidenceThreshold:
		return DecisionSell
	default:
		return DecisionHold
	}
}

// agreementConfidence 一致性置信度
// 各指标评分的标准差越小（越一致）置信度越高：1 - min(std/2, 1)
// 有效评分不足2个时为0
func agreementConfidence(scores []float64) float64 {
	if len(scores) < 2 {
		return 0
	}

	mean := 0.0
	for _, s := range scores {
		mean += s
	}
	mean /= float64(len(scores))

	variance := 0.0
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	std := math.Sqrt(variance / float64(len(scores)))

	return clamp(sanitize(1-math.Min(std/2, 1)), 0, 1)
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
