package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParameterSet(t *testing.T) {
	params := DefaultParameterSet()

	assert.Equal(t, 0.6, params.ExecutionThreshold)
	assert.Equal(t, 0.7, params.ConfidenceThreshold)
	require.Len(t, params.Weights, len(WeightedIndicators))
	for _, name := range WeightedIndicators {
		assert.Equal(t, 1.0, params.Weights[name])
	}
	assert.NoError(t, params.Validate())
}

func TestParameterSet_Weight(t *testing.T) {
	params := &ParameterSet{Weights: map[string]float64{"rsi": 1.5, "macd": 0}}

	assert.Equal(t, 1.5, params.Weight("rsi"))
	assert.Equal(t, 0.0, params.Weight("macd"))
	assert.Equal(t, 1.0, params.Weight("ichimoku"), "未配置的指标默认权重1.0")
}

func TestParameterSet_Validate(t *testing.T) {
	tests := []struct {
		name    string
		exec    float64
		conf    float64
		wantErr bool
	}{
		{"valid params", 0.6, 0.7, false},
		{"execution threshold zero", 0, 0.7, true},
		{"execution threshold one", 1, 0.7, true},
		{"negative execution threshold", -0.5, 0.7, true},
		{"confidence threshold zero", 0.6, 0, true},
		{"confidence threshold above one", 0.6, 1.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &ParameterSet{ExecutionThreshold: tt.exec, ConfidenceThreshold: tt.conf}
			err := p.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseParameterSet(t *testing.T) {
	t.Run("full parameters", func(t *testing.T) {
		p, err := ParseParameterSet(`{"execution_threshold":0.5,"confidence_threshold":0.6,"weights":{"rsi":1.2}}`)
		require.NoError(t, err)
		assert.Equal(t, 0.5, p.ExecutionThreshold)
		assert.Equal(t, 0.6, p.ConfidenceThreshold)
		assert.Equal(t, 1.2, p.Weights["rsi"])
	})

	t.Run("missing weights filled with defaults", func(t *testing.T) {
		p, err := ParseParameterSet(`{"execution_threshold":0.5,"confidence_threshold":0.6}`)
		require.NoError(t, err)
		require.NotNil(t, p.Weights)
		assert.Equal(t, 1.0, p.Weights["macd"])
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseParameterSet(`{broken`)
		assert.Error(t, err)
	})

	t.Run("threshold out of range", func(t *testing.T) {
		_, err := ParseParameterSet(`{"execution_threshold":1.5,"confidence_threshold":0.6}`)
		assert.Error(t, err)
	})
}

func TestParameterSet_ToJSON(t *testing.T) {
	original := &ParameterSet{
		ExecutionThreshold:  0.55,
		ConfidenceThreshold: 0.65,
		Weights:             map[string]float64{"rsi": 1.5, "macd": 0.5},
	}

	data, err := original.ToJSON()
	require.NoError(t, err)

	parsed, err := ParseParameterSet(data)
	require.NoError(t, err)
	assert.Equal(t, original.ExecutionThreshold, parsed.ExecutionThreshold)
	assert.Equal(t, original.ConfidenceThreshold, parsed.ConfidenceThreshold)
	assert.Equal(t, original.Weights, parsed.Weights)
}
