package indicators

import "chartSignals/internal/domain"

// MACDConfig holds the smoothing periods for the MACD oscillator.
type MACDConfig struct {
	FastPeriod   int
	SlowPeriod   int
	SignalPeriod int
}

// DefaultMACDConfig returns the conventional 12/26/9 parameterization.
func DefaultMACDConfig() MACDConfig {
	return MACDConfig{FastPeriod: 12, SlowPeriod: 26, SignalPeriod: 9}
}

func (c MACDConfig) withDefaults() MACDConfig {
	d := DefaultMACDConfig()
	if c.FastPeriod <= 0 {
		c.FastPeriod = d.FastPeriod
	}
	if c.SlowPeriod <= 0 {
		c.SlowPeriod = d.SlowPeriod
	}
	if c.SignalPeriod <= 0 {
		c.SignalPeriod = d.SignalPeriod
	}
	return c
}

// MACDResult holds the three derived MACD series, each aligned 1:1 with the
// input candles. Histogram[i] is exactly 2*(Diff[i]-SignalLine[i]).
type MACDResult struct {
	Diff       []float64
	SignalLine []float64
	Histogram  []float64
}

// MACD computes the moving-average-convergence-divergence triple over the
// candle closes. It runs for any input length; warm-up bars are numerically
// less meaningful but never fail.
func MACD(candles []domain.Candle, cfg MACDConfig) MACDResult {
	cfg = cfg.withDefaults()
	cls := closes(candles)
	fast := EMA(cls, cfg.FastPeriod)
	slow := EMA(cls, cfg.SlowPeriod)

	diff := make([]float64, len(cls))
	for i := range diff {
		diff[i] = fast[i] - slow[i]
	}
	signal := EMA(diff, cfg.SignalPeriod)

	hist := make([]float64, len(cls))
	for i := range hist {
		hist[i] = 2 * (diff[i] - signal[i])
	}
	return MACDResult{Diff: diff, SignalLine: signal, Histogram: hist}
}
