package indicators

import (
	"math"

	"chartSignals/internal/domain"
)

// cdMinBars is the minimum history the divergence cascade needs before any
// phase bookkeeping is trustworthy.
const cdMinBars = 30

// CDConfig parameterizes the divergence detector. The zero value of any
// field falls back to its documented default.
type CDConfig struct {
	// MACD is the oscillator parameterization the cascade runs on.
	MACD MACDConfig
	// EaseMultiplier is the factor |diff| must have shrunk by, bar over bar,
	// for the momentum-easing confirmation to fire.
	EaseMultiplier float64
	// ReboundGuardBars and RepeatGuardBars are the trailing-count windows of
	// the secondary confirmation tier.
	ReboundGuardBars int
	RepeatGuardBars  int
}

// DefaultCDConfig returns the contractual constants: 1.01 easing multiplier
// and 23/24-bar trailing-count guards.
func DefaultCDConfig() CDConfig {
	return CDConfig{
		MACD:             DefaultMACDConfig(),
		EaseMultiplier:   1.01,
		ReboundGuardBars: 23,
		RepeatGuardBars:  24,
	}
}

func (c CDConfig) withDefaults() CDConfig {
	d := DefaultCDConfig()
	c.MACD = c.MACD.withDefaults()
	if c.EaseMultiplier <= 0 {
		c.EaseMultiplier = d.EaseMultiplier
	}
	if c.ReboundGuardBars <= 0 {
		c.ReboundGuardBars = d.ReboundGuardBars
	}
	if c.RepeatGuardBars <= 0 {
		c.RepeatGuardBars = d.RepeatGuardBars
	}
	return c
}

// cdState carries the per-bar series the cascade builds in its single
// forward pass. Each slice is aligned 1:1 with the input candles.
type cdState struct {
	barsSinceDeath  []int // bars back to the latest histogram >=0 -> <0 flip
	barsSinceGolden []int // bars back to the latest histogram <=0 -> >0 flip

	// Buy side: close/diff minima of the current negative phase plus the two
	// phases before it, carried via back-references anchored on the golden flip.
	lowInPhase1 []float64
	lowInPhase2 []float64
	lowInPhase3 []float64
	diffLow1    []float64
	diffLow2    []float64
	diffLow3    []float64

	// Sell side mirror: maxima across positive phases, anchored on the death flip.
	highInPhase1 []float64
	highInPhase2 []float64
	highInPhase3 []float64
	diffHigh1    []float64
	diffHigh2    []float64
	diffHigh3    []float64

	bottomDiv  []bool // combined bottom-divergence flag (pattern A or B)
	topDiv     []bool
	bottomEase []bool // momentum-easing confirmation after an active bottom divergence
	topEase    []bool

	// Secondary confirmation tier: close-price rebound beyond the phase
	// extremum, gated by trailing-count guards against double-firing. The
	// flags participate in the boolean history of the cascade but no events
	// are emitted from them.
	bottomRebound []bool
	topRebound    []bool
}

func newCDState(n int) *cdState {
	return &cdState{
		barsSinceDeath:  make([]int, n),
		barsSinceGolden: make([]int, n),
		lowInPhase1:     make([]float64, n),
		lowInPhase2:     make([]float64, n),
		lowInPhase3:     make([]float64, n),
		diffLow1:        make([]float64, n),
		diffLow2:        make([]float64, n),
		diffLow3:        make([]float64, n),
		highInPhase1:    make([]float64, n),
		highInPhase2:    make([]float64, n),
		highInPhase3:    make([]float64, n),
		diffHigh1:       make([]float64, n),
		diffHigh2:       make([]float64, n),
		diffHigh3:       make([]float64, n),
		bottomDiv:       make([]bool, n),
		topDiv:          make([]bool, n),
		bottomEase:      make([]bool, n),
		topEase:         make([]bool, n),
		bottomRebound:   make([]bool, n),
		topRebound:      make([]bool, n),
	}
}

// lookBack returns s[i-n], or 0 when the reference reaches before the start
// of the series.
func lookBack(s []float64, i, n int) float64 {
	if i-n < 0 {
		return 0
	}
	return s[i-n]
}

// trueCount counts the true entries of s in the trailing window ending at i.
func trueCount(s []bool, i, window int) int {
	lo := i - window + 1
	if lo < 0 {
		lo = 0
	}
	n := 0
	for j := lo; j <= i; j++ {
		if s[j] {
			n++
		}
	}
	return n
}

// CDSignals runs the divergence cascade over the candle sequence and returns
// the emitted bottom-fish (buy) and top-escape (sell) events in time order.
// Fewer than 30 bars yields no signals.
//
// The cascade tracks histogram sign-flip phases and compares each phase's
// price extremum against the extrema of up to two earlier phases of the same
// sign, looking for price making a new extreme while the diff extremum
// weakens. A signal fires on the rising edge of the momentum-easing
// confirmation that follows an active divergence, never on the divergence
// bar itself.
func CDSignals(candles []domain.Candle, cfg CDConfig) []domain.CDSignal {
	if len(candles) < cdMinBars {
		return nil
	}
	cfg = cfg.withDefaults()

	m := MACD(candles, cfg.MACD)
	diff, signal, hist := m.Diff, m.SignalLine, m.Histogram
	cls := closes(candles)
	n := len(candles)
	st := newCDState(n)

	var out []domain.CDSignal
	for i := 0; i < n; i++ {
		prevHist := lookBack(hist, i, 1)
		deathFlip := prevHist >= 0 && hist[i] < 0
		goldenFlip := prevHist <= 0 && hist[i] > 0

		// distance-since-true bookkeeping for both flip kinds
		switch {
		case deathFlip:
			st.barsSinceDeath[i] = 0
		case i == 0:
			st.barsSinceDeath[i] = 1
		default:
			st.barsSinceDeath[i] = st.barsSinceDeath[i-1] + 1
		}
		switch {
		case goldenFlip:
			st.barsSinceGolden[i] = 0
		case i == 0:
			st.barsSinceGolden[i] = 1
		default:
			st.barsSinceGolden[i] = st.barsSinceGolden[i-1] + 1
		}

		// Trailing extrema over the current phase. The window is
		// barsSince*Flip+1, which grows by one each bar, so the rolling
		// min/max update is exact.
		if deathFlip || i == 0 {
			st.lowInPhase1[i] = cls[i]
			st.diffLow1[i] = diff[i]
		} else {
			st.lowInPhase1[i] = math.Min(st.lowInPhase1[i-1], cls[i])
			st.diffLow1[i] = math.Min(st.diffLow1[i-1], diff[i])
		}
		if goldenFlip || i == 0 {
			st.highInPhase1[i] = cls[i]
			st.diffHigh1[i] = diff[i]
		} else {
			st.highInPhase1[i] = math.Max(st.highInPhase1[i-1], cls[i])
			st.diffHigh1[i] = math.Max(st.diffHigh1[i-1], diff[i])
		}

		// Carry extrema from the one- and two-phases-back generations. The
		// back-reference lands on the bar just before the opposite flip,
		// i.e. the final (complete) extremum of the previous phase.
		backBuy := st.barsSinceGolden[i] + 1
		st.lowInPhase2[i] = lookBack(st.lowInPhase1, i, backBuy)
		st.lowInPhase3[i] = lookBack(st.lowInPhase2, i, backBuy)
		st.diffLow2[i] = lookBack(st.diffLow1, i, backBuy)
		st.diffLow3[i] = lookBack(st.diffLow2, i, backBuy)

		backSell := st.barsSinceDeath[i] + 1
		st.highInPhase2[i] = lookBack(st.highInPhase1, i, backSell)
		st.highInPhase3[i] = lookBack(st.highInPhase2, i, backSell)
		st.diffHigh2[i] = lookBack(st.diffHigh1, i, backSell)
		st.diffHigh3[i] = lookBack(st.diffHigh2, i, backSell)

		// Bottom divergence: price under the previous phase low while the
		// diff minimum holds higher. Pattern B skips one phase back and
		// wants the diff minimum strictly between the two earlier ones.
		prevHistNeg := prevHist < 0
		bottomA := prevHistNeg && diff[i] < 0 &&
			st.lowInPhase1[i] < st.lowInPhase2[i] &&
			st.diffLow1[i] > st.diffLow2[i]
		bottomB := prevHistNeg && diff[i] < 0 &&
			st.lowInPhase1[i] < st.lowInPhase3[i] &&
			st.diffLow1[i] > st.diffLow3[i] &&
			st.diffLow1[i] < st.diffLow2[i]
		st.bottomDiv[i] = (bottomA || bottomB) && diff[i] < 0

		prevHistPos := prevHist > 0
		topA := prevHistPos && diff[i] > 0 &&
			st.highInPhase1[i] > st.highInPhase2[i] &&
			st.diffHigh1[i] < st.diffHigh2[i]
		topB := prevHistPos && diff[i] > 0 &&
			st.highInPhase1[i] > st.highInPhase3[i] &&
			st.diffHigh1[i] < st.diffHigh3[i] &&
			st.diffHigh1[i] > st.diffHigh2[i]
		st.topDiv[i] = (topA || topB) && diff[i] > 0

		// Momentum easing: the divergence was active on the previous bar and
		// |diff| has now shrunk by at least the configured factor.
		prevAbsDiff := math.Abs(lookBack(diff, i, 1))
		if i > 0 && st.bottomDiv[i-1] {
			st.bottomEase[i] = math.Abs(diff[i])*cfg.EaseMultiplier < prevAbsDiff
		}
		if i > 0 && st.topDiv[i-1] {
			st.topEase[i] = math.Abs(diff[i])*cfg.EaseMultiplier < prevAbsDiff
		}

		// Secondary tier: close rebounding off the phase extremum with
		// trailing-count guards. Kept as internal state only.
		st.bottomRebound[i] = prevHistNeg && diff[i] < 0 &&
			cls[i] > st.lowInPhase1[i] &&
			trueCount(st.bottomDiv, i, cfg.ReboundGuardBars) >= 1 &&
			trueCount(st.bottomEase, i, cfg.RepeatGuardBars) == 0
		st.topRebound[i] = prevHistPos && diff[i] > 0 &&
			cls[i] < st.highInPhase1[i] &&
			trueCount(st.topDiv, i, cfg.ReboundGuardBars) >= 1 &&
			trueCount(st.topEase, i, cfg.RepeatGuardBars) == 0

		// Emit on the rising edge of the easing confirmation only.
		if st.bottomEase[i] && !(i > 0 && st.bottomEase[i-1]) {
			out = append(out, domain.CDSignal{
				Time:       candles[i].Time,
				Direction:  domain.DirectionBuy,
				Strength:   domain.StrengthStrong,
				Label:      "bottom-fish",
				Diff:       diff[i],
				SignalLine: signal[i],
				Histogram:  hist[i],
			})
		}
		if st.topEase[i] && !(i > 0 && st.topEase[i-1]) {
			out = append(out, domain.CDSignal{
				Time:       candles[i].Time,
				Direction:  domain.DirectionSell,
				Strength:   domain.StrengthStrong,
				Label:      "top-escape",
				Diff:       diff[i],
				SignalLine: signal[i],
				Histogram:  hist[i],
			})
		}
	}
	return out
}
