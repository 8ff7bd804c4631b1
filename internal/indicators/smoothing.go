package indicators

import "chartSignals/internal/domain"

// EMA computes an exponential moving average over values. The first output
// is seeded with the first raw value (the charting convention, where the
// recursion starts at bar 0 rather than after a warm-up SMA). The result is
// positionally aligned with the input.
func EMA(values []float64, period int) []float64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]float64, len(values))
	if period <= 1 {
		copy(out, values)
		return out
	}
	k := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = values[i]*k + out[i-1]*(1-k)
	}
	return out
}

// SMA computes a simple moving average over values. Until enough history
// exists for a full window the raw value is passed through unchanged.
func SMA(values []float64, period int) []float64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]float64, len(values))
	if period <= 1 {
		copy(out, values)
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i+1 >= period {
			out[i] = sum / float64(period)
		} else {
			out[i] = v
		}
	}
	return out
}

func closes(candles []domain.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

func volumes(candles []domain.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Volume
	}
	return out
}
