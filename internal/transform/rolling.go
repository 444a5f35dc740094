package transform

import "github.com/shopspring/decimal"

// MovingAverage returns the trailing mean of values over window observations,
// rounded half-to-even to two decimals. The first window-1 positions average
// over the i+1 values available so far instead of being left undefined.
//
// Sums are kept in decimal so that a long series does not accumulate float error.
func MovingAverage(values []float64, window int) []float64 {
	if window < 1 {
		panic("MovingAverage: window must be greater than 0")
	}

	out := make([]float64, len(values))
	sum := decimal.Zero
	for i, v := range values {
		sum = sum.Add(decimal.NewFromFloat(v))
		if i >= window {
			sum = sum.Sub(decimal.NewFromFloat(values[i-window]))
		}

		n := int64(min(window, i+1))
		out[i], _ = sum.DivRound(decimal.NewFromInt(n), 16).RoundBank(2).Float64()
	}
	return out
}
