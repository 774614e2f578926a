package indicators

import "errors"

var (
	// ErrInsufficientData 数据不足错误 - 不是真正的失败，评分层将其归零处理
	ErrInsufficientData = errors.New("insufficient data for calculation")

	// ErrInvalidPeriod 无效周期错误
	ErrInvalidPeriod = errors.New("invalid period, must be greater than 0")

	// ErrDegenerateInput 退化输入错误（零价格、零方差等数值边界情况）
	ErrDegenerateInput = errors.New("degenerate input produced non-finite value")
)
