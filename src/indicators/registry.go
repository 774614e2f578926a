package indicators

import (
	"encoding/json"
	"fmt"
)

// Type 指标类型枚举
// 指标按显式类型注册，参数在配置解析阶段即定型，运行期不做反射构造
type Type string

const (
	TypeRSI      Type = "RSI"
	TypeMACD     Type = "MACD"
	TypeBB       Type = "BB"
	TypeMACross  Type = "MA_CROSS"
	TypeATR      Type = "ATR"
	TypeOBV      Type = "OBV"
	TypeROC      Type = "ROC"
	TypeIchimoku Type = "ICHIMOKU"
	TypeStochRSI Type = "STOCH_RSI"
)

// 设置JSON里的历史别名，解析时归一化
var typeAliases = map[string]Type{
	"RSI":             TypeRSI,
	"MACD":            TypeMACD,
	"BB":              TypeBB,
	"BOLLINGER_BANDS": TypeBB,
	"MA":              TypeMACross,
	"MA_CROSS":        TypeMACross,
	"MOVING_AVERAGE":  TypeMACross,
	"ATR":             TypeATR,
	"OBV":             TypeOBV,
	"ROC":             TypeROC,
	"ICHIMOKU":        TypeIchimoku,
	"STOCH_RSI":       TypeStochRSI,
}

// RSIParams RSI参数
type RSIParams struct {
	Period        int     `json:"period"`
	BuyThreshold  float64 `json:"buy_threshold"`
	SellThreshold float64 `json:"sell_threshold"`
}

// MACDParams MACD参数
type MACDParams struct {
	FastPeriod   int `json:"fast_period"`
	SlowPeriod   int `json:"slow_period"`
	SignalPeriod int `json:"signal_period"`
}

// BBParams 布林道参数
type BBParams struct {
	Period     int     `json:"period"`
	Multiplier float64 `json:"std_dev_multiplier"`
}

// MACrossParams 均线交叉参数
type MACrossParams struct {
	ShortPeriod int `json:"short_period"`
	LongPeriod  int `json:"long_period"`
}

// Spec 单个指标的解析结果：类型 + 定型后的构造器
type Spec struct {
	Type  Type
	build func() Voter
}

// Build 构造指标实例
func (s *Spec) Build() Voter {
	return s.build()
}

// ParseSettings 解析指标设置JSON为类型化的指标清单
// 只接受可投票的指标（RSI/MACD/BB/MA_CROSS）；未知指标名返回错误，
// 未填的参数字段取各指标默认值
func ParseSettings(settingsJSON string) ([]*Spec, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(settingsJSON), &raw); err != nil {
		return nil, fmt.Errorf("invalid indicator settings: %w", err)
	}

	specs := make([]*Spec, 0, len(raw))
	for name, paramsRaw := range raw {
		typ, ok := typeAliases[name]
		if !ok {
			return nil, fmt.Errorf("unknown indicator: %s", name)
		}

		spec, err := parseSpec(typ, paramsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse %s params: %w", name, err)
		}
		if spec != nil {
			specs = append(specs, spec)
		}
	}
	return specs, nil
}

func parseSpec(typ Type, paramsRaw json.RawMessage) (*Spec, error) {
	switch typ {
	case TypeRSI:
		p := RSIParams{Period: 14, BuyThreshold: 30, SellThreshold: 70}
		if err := json.Unmarshal(paramsRaw, &p); err != nil {
			return nil, err
		}
		return &Spec{Type: typ, build: func() Voter {
			return NewRSIWithParams(p.Period, p.BuyThreshold, p.SellThreshold)
		}}, nil
	case TypeMACD:
		p := MACDParams{FastPeriod: 12, SlowPeriod: 26, SignalPeriod: 9}
		if err := json.Unmarshal(paramsRaw, &p); err != nil {
			return nil, err
		}
		return &Spec{Type: typ, build: func() Voter {
			return NewMACDWithParams(p.FastPeriod, p.SlowPeriod, p.SignalPeriod)
		}}, nil
	case TypeBB:
		p := BBParams{Period: 20, Multiplier: 2.0}
		if err := json.Unmarshal(paramsRaw, &p); err != nil {
			return nil, err
		}
		return &Spec{Type: typ, build: func() Voter {
			return NewBollingerBandsWithParams(p.Period, p.Multiplier)
		}}, nil
	case TypeMACross:
		p := MACrossParams{ShortPeriod: 20, LongPeriod: 50}
		if err := json.Unmarshal(paramsRaw, &p); err != nil {
			return nil, err
		}
		return &Spec{Type: typ, build: func() Voter {
			return NewMACrossoverWithParams(p.ShortPeriod, p.LongPeriod)
		}}, nil
	default:
		// 非投票型指标出现在手动策略设置里时跳过
		return nil, nil
	}
}
