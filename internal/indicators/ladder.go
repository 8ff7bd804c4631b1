package indicators

import (
	"math"

	"chartSignals/internal/domain"
)

const ladderMinBars = 60

// LadderConfig parameterizes the ATR-banded trend channel. Zero-value fields
// fall back to their documented defaults.
type LadderConfig struct {
	InnerPeriod int // EMA period of the inner ("blue") midline
	OuterPeriod int // EMA period of the outer ("yellow") midline
	ATRPeriod   int // EMA period of the true range

	InnerMultiplier float64 // ATR multiples around the inner midline
	OuterMultiplier float64 // ATR multiples around the outer midline
}

// DefaultLadderConfig returns the contractual 20/60 midlines, ATR 14 and
// 2x/3x band multipliers.
func DefaultLadderConfig() LadderConfig {
	return LadderConfig{
		InnerPeriod:     20,
		OuterPeriod:     60,
		ATRPeriod:       14,
		InnerMultiplier: 2,
		OuterMultiplier: 3,
	}
}

func (c LadderConfig) withDefaults() LadderConfig {
	d := DefaultLadderConfig()
	if c.InnerPeriod <= 0 {
		c.InnerPeriod = d.InnerPeriod
	}
	if c.OuterPeriod <= 0 {
		c.OuterPeriod = d.OuterPeriod
	}
	if c.ATRPeriod <= 0 {
		c.ATRPeriod = d.ATRPeriod
	}
	if c.InnerMultiplier <= 0 {
		c.InnerMultiplier = d.InnerMultiplier
	}
	if c.OuterMultiplier <= 0 {
		c.OuterMultiplier = d.OuterMultiplier
	}
	return c
}

// Ladder computes the paired volatility bands around the short and long
// close EMAs. Fewer than 60 bars yields an empty result. With a zero ATR the
// bands collapse onto their midlines, which is the accepted degenerate case.
func Ladder(candles []domain.Candle, cfg LadderConfig) []domain.LadderLevel {
	if len(candles) < ladderMinBars {
		return nil
	}
	cfg = cfg.withDefaults()
	n := len(candles)

	cls := closes(candles)
	inner := EMA(cls, cfg.InnerPeriod)
	outer := EMA(cls, cfg.OuterPeriod)

	tr := make([]float64, n)
	tr[0] = candles[0].High - candles[0].Low
	for i := 1; i < n; i++ {
		prevClose := candles[i-1].Close
		tr[i] = math.Max(candles[i].High-candles[i].Low,
			math.Max(math.Abs(candles[i].High-prevClose), math.Abs(candles[i].Low-prevClose)))
	}
	atr := EMA(tr, cfg.ATRPeriod)

	out := make([]domain.LadderLevel, n)
	for i := range out {
		out[i] = domain.LadderLevel{
			Time:        candles[i].Time,
			BlueUpper:   inner[i] + cfg.InnerMultiplier*atr[i],
			BlueLower:   inner[i] - cfg.InnerMultiplier*atr[i],
			YellowUpper: outer[i] + cfg.OuterMultiplier*atr[i],
			YellowLower: outer[i] - cfg.OuterMultiplier*atr[i],
			BlueMid:     inner[i],
			YellowMid:   outer[i],
		}
	}
	return out
}

// LadderTrendStrong reports whether the latest ladder reading shows a strong
// uptrend: the inner midline rising bar over bar, the inner upper band above
// the outer upper band, and the latest close above the inner lower band.
// Requires at least 60 candles and 3 computed levels.
func LadderTrendStrong(levels []domain.LadderLevel, candles []domain.Candle) bool {
	if len(candles) < ladderMinBars || len(levels) < 3 {
		return false
	}
	last := levels[len(levels)-1]
	prev := levels[len(levels)-2]
	return last.BlueMid > prev.BlueMid &&
		last.BlueUpper > last.YellowUpper &&
		candles[len(candles)-1].Close > last.BlueLower
}
