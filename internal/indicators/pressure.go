package indicators

import (
	"math"

	"chartSignals/internal/domain"
)

const pressureMinBars = 10

// PressureConfig parameterizes the buy/sell pressure oscillator. Zero-value
// fields fall back to their documented defaults.
type PressureConfig struct {
	SmoothPeriod int // EMA period of the raw pressure
	AvgPeriod    int // EMA period of the rolling |pressure| average

	ChangeRateThreshold float64 // percent change needed for a signal
	VolumeSurgeRatio    float64 // bar volume vs mean volume
	AbsSurgeRatio       float64 // |pressure| vs its rolling average
}

// DefaultPressureConfig returns the contractual 10/20 smoothing and
// 10% / 1.2x / 1.5x signal thresholds.
func DefaultPressureConfig() PressureConfig {
	return PressureConfig{
		SmoothPeriod:        10,
		AvgPeriod:           20,
		ChangeRateThreshold: 10,
		VolumeSurgeRatio:    1.2,
		AbsSurgeRatio:       1.5,
	}
}

func (c PressureConfig) withDefaults() PressureConfig {
	d := DefaultPressureConfig()
	if c.SmoothPeriod <= 0 {
		c.SmoothPeriod = d.SmoothPeriod
	}
	if c.AvgPeriod <= 0 {
		c.AvgPeriod = d.AvgPeriod
	}
	if c.ChangeRateThreshold <= 0 {
		c.ChangeRateThreshold = d.ChangeRateThreshold
	}
	if c.VolumeSurgeRatio <= 0 {
		c.VolumeSurgeRatio = d.VolumeSurgeRatio
	}
	if c.AbsSurgeRatio <= 0 {
		c.AbsSurgeRatio = d.AbsSurgeRatio
	}
	return c
}

// Pressure computes the volume-weighted buy/sell pressure oscillator.
// Fewer than 10 bars yields an empty result.
//
// Per bar the close's position inside the range is weighted by the square
// root of the bar's volume ratio, plus the percent price change weighted by
// the raw volume ratio. Zero-range bars carry the previous smoothed value
// forward. A strong_up/strong_down flag fires when the smoothed pressure
// accelerates, the bar's volume surges and |pressure| runs well above its
// rolling average.
func Pressure(candles []domain.Candle, cfg PressureConfig) []domain.PressurePoint {
	if len(candles) < pressureMinBars {
		return nil
	}
	cfg = cfg.withDefaults()
	n := len(candles)

	meanVolume := 0.0
	for _, c := range candles {
		meanVolume += c.Volume
	}
	meanVolume /= float64(n)

	kSmooth := 2.0 / float64(cfg.SmoothPeriod+1)
	kAvg := 2.0 / float64(cfg.AvgPeriod+1)

	smoothed := make([]float64, n)
	rollingAbs := make([]float64, n)
	out := make([]domain.PressurePoint, n)

	for i, c := range candles {
		barRange := c.High - c.Low
		if barRange == 0 {
			// Flat bar: no pressure reading, carry the smoothed value forward.
			if i > 0 {
				smoothed[i] = smoothed[i-1]
			}
		} else {
			volumeRatio := 0.0
			if meanVolume > 0 {
				volumeRatio = c.Volume / meanVolume
			}
			buyRatio := (c.Close - c.Low) / barRange
			sellRatio := (c.High - c.Close) / barRange
			pctChange := 0.0
			if i > 0 && candles[i-1].Close != 0 {
				pctChange = (c.Close - candles[i-1].Close) / candles[i-1].Close * 100
			}
			raw := (buyRatio-sellRatio)*math.Sqrt(volumeRatio)*100 + pctChange*volumeRatio
			if i == 0 {
				smoothed[i] = raw
			} else {
				smoothed[i] = raw*kSmooth + smoothed[i-1]*(1-kSmooth)
			}
		}

		if i == 0 {
			rollingAbs[i] = math.Abs(smoothed[i])
		} else {
			rollingAbs[i] = math.Abs(smoothed[i])*kAvg + rollingAbs[i-1]*(1-kAvg)
		}

		changeRate := 0.0
		if i > 0 && smoothed[i-1] != 0 {
			changeRate = (smoothed[i] - smoothed[i-1]) / math.Abs(smoothed[i-1]) * 100
		}

		p := domain.PressurePoint{
			Time:       c.Time,
			Pressure:   smoothed[i],
			ChangeRate: changeRate,
		}
		surged := c.Volume > cfg.VolumeSurgeRatio*meanVolume &&
			math.Abs(smoothed[i]) > cfg.AbsSurgeRatio*rollingAbs[i]
		switch {
		case surged && changeRate >= cfg.ChangeRateThreshold && smoothed[i] > 0:
			p.Signal = domain.PressureStrongUp
		case surged && changeRate <= -cfg.ChangeRateThreshold && smoothed[i] < 0:
			p.Signal = domain.PressureStrongDown
		}
		out[i] = p
	}
	return out
}
