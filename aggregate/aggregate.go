// Package aggregate implements the closed set of aggregation functions the
// engine supports. Missing entries (NaN) never poison an aggregate: they
// are skipped, and an empty selection yields the function's identity.
package aggregate

import (
	"fmt"
	"math"
	"strings"

	"github.com/hupe1980/nanocube/index"
)

// Kind identifies an aggregation function. The set is a closed
// enumeration, not a plugin surface.
type Kind uint8

const (
	// Sum adds all present values. Identity: 0.
	Sum Kind = iota + 1
	// Mean averages all present values. Identity: 0.
	Mean
	// Min returns the smallest present value. Identity: 0.
	Min
	// Max returns the largest present value. Identity: 0.
	Max
	// Std returns the population standard deviation. Identity: 0.
	Std
	// Var returns the population variance. Identity: 0.
	Var
	// Count counts the non-zero present values. Identity: 0.
	Count
)

// String returns the stable name of the aggregation.
func (k Kind) String() string {
	switch k {
	case Sum:
		return "sum"
	case Mean:
		return "mean"
	case Min:
		return "min"
	case Max:
		return "max"
	case Std:
		return "std"
	case Var:
		return "var"
	case Count:
		return "count"
	default:
		return "invalid"
	}
}

// ParseKind resolves an aggregation by name.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sum":
		return Sum, nil
	case "mean", "avg":
		return Mean, nil
	case "min":
		return Min, nil
	case "max":
		return Max, nil
	case "std":
		return Std, nil
	case "var":
		return Var, nil
	case "count":
		return Count, nil
	default:
		return 0, fmt.Errorf("unknown aggregation %q", s)
	}
}

// Apply aggregates the measure restricted to the given row ordinals.
// rows == nil means the whole vector (the unfiltered query path);
// an empty non-nil slice is an empty selection.
func Apply(k Kind, m *index.Measure, rows []uint32) float64 {
	if m.Kind() == index.Int64 {
		return applyInts(k, m.Int64s(), rows)
	}
	return applyFloats(k, m.Float64s(), rows)
}

func applyFloats(k Kind, values []float64, rows []uint32) float64 {
	var (
		sum, sumSq float64
		minV       = math.Inf(1)
		maxV       = math.Inf(-1)
		n          int
		nonZero    int
	)

	visit := func(v float64) {
		if math.IsNaN(v) {
			return
		}
		n++
		sum += v
		sumSq += v * v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
		if v != 0 {
			nonZero++
		}
	}

	if rows == nil {
		for _, v := range values {
			visit(v)
		}
	} else {
		for _, r := range rows {
			visit(values[r])
		}
	}

	return finish(k, sum, sumSq, minV, maxV, n, nonZero)
}

func applyInts(k Kind, values []int64, rows []uint32) float64 {
	var (
		sum, sumSq float64
		minV       = math.Inf(1)
		maxV       = math.Inf(-1)
		n          int
		nonZero    int
	)

	visit := func(i int64) {
		v := float64(i)
		n++
		sum += v
		sumSq += v * v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
		if i != 0 {
			nonZero++
		}
	}

	if rows == nil {
		for _, v := range values {
			visit(v)
		}
	} else {
		for _, r := range rows {
			visit(values[r])
		}
	}

	return finish(k, sum, sumSq, minV, maxV, n, nonZero)
}

func finish(k Kind, sum, sumSq, minV, maxV float64, n, nonZero int) float64 {
	if n == 0 {
		// Identity of every supported aggregation over an empty
		// selection, including mean/min/max, which the original left
		// unspecified.
		return 0
	}
	switch k {
	case Sum:
		return sum
	case Mean:
		return sum / float64(n)
	case Min:
		return minV
	case Max:
		return maxV
	case Var:
		return variance(sum, sumSq, n)
	case Std:
		return math.Sqrt(variance(sum, sumSq, n))
	case Count:
		return float64(nonZero)
	default:
		return sum
	}
}

// variance is the population variance (ddof = 0), clamped at zero to
// absorb floating-point cancellation.
func variance(sum, sumSq float64, n int) float64 {
	mean := sum / float64(n)
	v := sumSq/float64(n) - mean*mean
	if v < 0 {
		return 0
	}
	return v
}
