package regime

// Weights 指标权重表：指标名 → 倍数
type Weights map[string]float64

// 各市场状态下的固定权重表（非学习所得）
// 趋势市加重动量/趋势类指标，震荡市加重摆动类指标，高波动加重ATR
var regimeWeights = map[Regime]Weights{
	TrendingUp: {
		"rsi": 0.8, "macd": 1.5, "bb": 0.7, "ma_cross": 1.4,
		"stoch_rsi": 0.9, "obv": 1.2, "roc": 1.3, "ichimoku": 1.1, "atr": 0.6,
	},
	TrendingDown: {
		"rsi": 0.8, "macd": 1.5, "bb": 0.7, "ma_cross": 1.4,
		"stoch_rsi": 0.9, "obv": 1.2, "roc": 1.3, "ichimoku": 1.1, "atr": 0.6,
	},
	Ranging: {
		"rsi": 1.4, "macd": 0.7, "bb": 1.5, "ma_cross": 0.6,
		"stoch_rsi": 1.3, "obv": 0.8, "roc": 0.7, "ichimoku": 0.9, "atr": 1.0,
	},
	HighVolatility: {
		"rsi": 1.0, "macd": 1.0, "bb": 1.2, "ma_cross": 0.8,
		"stoch_rsi": 1.0, "obv": 0.9, "roc": 1.1, "ichimoku": 1.0, "atr": 1.5,
	},
}

// GetWeights 获取指定市场状态的推荐指标权重
// 未知状态所有指标权重为1.0
func GetWeights(r Regime) Weights {
	if w, ok := regimeWeights[r]; ok {
		// 返回副本，调用方可以安全修改
		copied := make(Weights, len(w))
		for k, v := range w {
			copied[k] = v
		}
		return copied
	}

	return Weights{
		"rsi": 1.0, "macd": 1.0, "bb": 1.0, "ma_cross": 1.0,
		"stoch_rsi": 1.0, "obv": 1.0, "roc": 1.0, "ichimoku": 1.0, "atr": 1.0,
	}
}
