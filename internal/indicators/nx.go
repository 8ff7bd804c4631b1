package indicators

import "chartSignals/internal/domain"

const nxMinBars = 20

// NXConfig parameterizes the crossover detector. Zero-value fields fall back
// to their documented defaults.
type NXConfig struct {
	FastPeriod   int // EMA period of the fast close average
	SlowPeriod   int // EMA period of the slow close average
	VolumePeriod int // EMA period of the volume baseline

	VolumeMultiplier float64 // volume surge required on the buy side
}

// DefaultNXConfig returns the contractual 5/10 close EMAs, a 10-bar volume
// EMA and the 1.5x buy-side volume gate.
func DefaultNXConfig() NXConfig {
	return NXConfig{FastPeriod: 5, SlowPeriod: 10, VolumePeriod: 10, VolumeMultiplier: 1.5}
}

func (c NXConfig) withDefaults() NXConfig {
	d := DefaultNXConfig()
	if c.FastPeriod <= 0 {
		c.FastPeriod = d.FastPeriod
	}
	if c.SlowPeriod <= 0 {
		c.SlowPeriod = d.SlowPeriod
	}
	if c.VolumePeriod <= 0 {
		c.VolumePeriod = d.VolumePeriod
	}
	if c.VolumeMultiplier <= 0 {
		c.VolumeMultiplier = d.VolumeMultiplier
	}
	return c
}

// NXSignals detects fast/slow EMA crossovers. Fewer than 20 bars yields an
// empty result.
//
// A buy fires when the fast EMA crosses above the slow EMA and the bar's
// volume exceeds the volume EMA by the configured multiple. A sell fires on
// the downward cross with no volume condition. The asymmetry is deliberate
// and must not be evened out.
func NXSignals(candles []domain.Candle, cfg NXConfig) []domain.NXSignal {
	if len(candles) < nxMinBars {
		return nil
	}
	cfg = cfg.withDefaults()

	cls := closes(candles)
	vols := volumes(candles)
	fast := EMA(cls, cfg.FastPeriod)
	slow := EMA(cls, cfg.SlowPeriod)
	volEMA := EMA(vols, cfg.VolumePeriod)

	var out []domain.NXSignal
	for i := 1; i < len(candles); i++ {
		crossedUp := fast[i-1] <= slow[i-1] && fast[i] > slow[i]
		crossedDown := fast[i-1] >= slow[i-1] && fast[i] < slow[i]
		if crossedUp && vols[i] > cfg.VolumeMultiplier*volEMA[i] {
			out = append(out, domain.NXSignal{
				Time:      candles[i].Time,
				Direction: domain.DirectionBuy,
				Label:     "nx-buy",
			})
		}
		if crossedDown {
			out = append(out, domain.NXSignal{
				Time:      candles[i].Time,
				Direction: domain.DirectionSell,
				Label:     "nx-sell",
			})
		}
	}
	return out
}
