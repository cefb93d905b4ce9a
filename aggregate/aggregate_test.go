package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/nanocube/index"
)

func TestParseKind(t *testing.T) {
	for _, s := range []string{"sum", "mean", "min", "max", "std", "var", "count"} {
		k, err := ParseKind(s)
		require.NoError(t, err)
		assert.Equal(t, s, k.String())
	}

	k, err := ParseKind("avg")
	require.NoError(t, err)
	assert.Equal(t, Mean, k)

	_, err = ParseKind("median")
	assert.Error(t, err)
}

func TestApplyFloats(t *testing.T) {
	m := index.RestoreFloatMeasure("x", []float64{1, 2, 3, 4})

	tests := []struct {
		kind Kind
		rows []uint32
		want float64
	}{
		{Sum, nil, 10},
		{Sum, []uint32{0, 2}, 4},
		{Mean, nil, 2.5},
		{Min, nil, 1},
		{Max, []uint32{1, 2}, 3},
		{Var, nil, 1.25},
		{Std, nil, math.Sqrt(1.25)},
		{Count, nil, 4},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Apply(tt.kind, m, tt.rows), 1e-12, "%s over %v", tt.kind, tt.rows)
	}
}

func TestApplyInts(t *testing.T) {
	m := index.RestoreIntMeasure("x", []int64{5, 0, -3, 8})

	assert.InDelta(t, 10.0, Apply(Sum, m, nil), 1e-12)
	assert.InDelta(t, 2.5, Apply(Mean, m, nil), 1e-12)
	assert.InDelta(t, -3.0, Apply(Min, m, nil), 1e-12)
	assert.InDelta(t, 8.0, Apply(Max, m, nil), 1e-12)
	// Zero is present but not counted.
	assert.InDelta(t, 3.0, Apply(Count, m, nil), 1e-12)
	assert.InDelta(t, 5.0, Apply(Sum, m, []uint32{0, 1}), 1e-12)
}

func TestMissingValuesSkipped(t *testing.T) {
	m := index.RestoreFloatMeasure("x", []float64{1, math.NaN(), 3})

	assert.InDelta(t, 4.0, Apply(Sum, m, nil), 1e-12)
	assert.InDelta(t, 2.0, Apply(Mean, m, nil), 1e-12)
	assert.InDelta(t, 1.0, Apply(Min, m, nil), 1e-12)
	assert.InDelta(t, 3.0, Apply(Max, m, nil), 1e-12)
	assert.InDelta(t, 2.0, Apply(Count, m, nil), 1e-12)
	assert.InDelta(t, 1.0, Apply(Var, m, nil), 1e-12)

	// A selection consisting only of missing values behaves like an
	// empty selection.
	assert.Equal(t, 0.0, Apply(Sum, m, []uint32{1}))
	assert.Equal(t, 0.0, Apply(Mean, m, []uint32{1}))
}

func TestEmptySelectionIdentity(t *testing.T) {
	m := index.RestoreFloatMeasure("x", []float64{1, 2, 3})

	for _, k := range []Kind{Sum, Mean, Min, Max, Std, Var, Count} {
		assert.Equal(t, 0.0, Apply(k, m, []uint32{}), k.String())
	}
}

func TestVarianceIsPopulation(t *testing.T) {
	m := index.RestoreFloatMeasure("x", []float64{2, 4})

	// Population variance divides by n, not n-1.
	assert.InDelta(t, 1.0, Apply(Var, m, nil), 1e-12)
	assert.InDelta(t, 1.0, Apply(Std, m, nil), 1e-12)
}

func TestVarianceNeverNegative(t *testing.T) {
	// Identical large values cancel catastrophically in sumSq - mean².
	m := index.RestoreFloatMeasure("x", []float64{1e15, 1e15, 1e15})
	assert.GreaterOrEqual(t, Apply(Var, m, nil), 0.0)
	assert.False(t, math.IsNaN(Apply(Std, m, nil)))
}
