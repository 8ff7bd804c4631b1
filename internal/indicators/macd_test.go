package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMACD_HistogramInvariant(t *testing.T) {
	closes := divergenceBuyCloses()
	candles := candlesFromCloses(closes)

	res := MACD(candles, MACDConfig{})
	require.Len(t, res.Diff, len(candles))
	require.Len(t, res.SignalLine, len(candles))
	require.Len(t, res.Histogram, len(candles))

	for i := range res.Histogram {
		want := 2 * (res.Diff[i] - res.SignalLine[i])
		assert.InDelta(t, want, res.Histogram[i], 1e-12, "index %d", i)
	}
}

func TestMACD_ConstantPrice(t *testing.T) {
	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = 250
	}
	res := MACD(candlesFromCloses(closes), DefaultMACDConfig())

	// Identical fast and slow averages leave the whole triple at zero.
	for i := range res.Diff {
		assert.InDelta(t, 0, res.Diff[i], 1e-9)
		assert.InDelta(t, 0, res.SignalLine[i], 1e-9)
		assert.InDelta(t, 0, res.Histogram[i], 1e-9)
	}
}

func TestMACD_RisingPriceKeepsDiffNonNegative(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	res := MACD(candlesFromCloses(closes), MACDConfig{})

	// The fast average reacts quicker, so a monotone rally never drives the
	// diff below zero.
	for i, d := range res.Diff {
		assert.GreaterOrEqual(t, d, -1e-12, "index %d", i)
	}
	assert.Greater(t, res.Diff[len(res.Diff)-1], 0.0)
}

func TestMACD_ZeroConfigUsesDefaults(t *testing.T) {
	candles := candlesFromCloses(divergenceBuyCloses())
	zero := MACD(candles, MACDConfig{})
	def := MACD(candles, DefaultMACDConfig())
	for i := range zero.Diff {
		assert.True(t, math.Abs(zero.Diff[i]-def.Diff[i]) < 1e-12)
	}
}
