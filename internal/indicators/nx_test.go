package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartSignals/internal/domain"
)

// vCloses is a 12-bar decline into a recovery, which forces one downward
// cross early and one upward cross mid-series.
func vCloses() []float64 {
	var closes []float64
	for i := 0; i < 12; i++ {
		closes = append(closes, 110-float64(i))
	}
	for i := 0; i < 13; i++ {
		closes = append(closes, 99+float64(i)*2)
	}
	return closes
}

func TestNXSignals_InsufficientHistory(t *testing.T) {
	closes := steadyUptrend(19)
	assert.Nil(t, NXSignals(candlesFromCloses(closes), NXConfig{}))
}

func TestNXSignals_BuyNeedsVolumeSurge(t *testing.T) {
	// Constant volume keeps every bar at exactly the volume EMA, so the
	// upward cross never clears the 1.5x gate and only the sell survives.
	candles := candlesFromCloses(vCloses())
	got := NXSignals(candles, NXConfig{})

	require.NotEmpty(t, got)
	for _, sig := range got {
		assert.Equal(t, domain.DirectionSell, sig.Direction)
		assert.Equal(t, "nx-sell", sig.Label)
	}
}

func TestNXSignals_BuyFiresOnSurgedCross(t *testing.T) {
	candles := candlesFromCloses(vCloses())
	// The upward cross lands on bar 16 for this shape; spike its volume.
	candles[16].Volume = 5000

	got := NXSignals(candles, NXConfig{})
	var buys, sells int
	for _, sig := range got {
		switch sig.Direction {
		case domain.DirectionBuy:
			buys++
			assert.Equal(t, "nx-buy", sig.Label)
			assert.Equal(t, candles[16].Time, sig.Time)
		case domain.DirectionSell:
			sells++
		}
	}
	assert.Equal(t, 1, buys)
	assert.GreaterOrEqual(t, sells, 1)
}

func TestNXSignals_SellHasNoVolumeCondition(t *testing.T) {
	// Starve the downward cross of volume; the sell still fires.
	candles := candlesFromCloses(vCloses())
	for i := range candles {
		candles[i].Volume = 1
	}
	got := NXSignals(candles, NXConfig{})

	var sells int
	for _, sig := range got {
		if sig.Direction == domain.DirectionSell {
			sells++
		}
	}
	assert.GreaterOrEqual(t, sells, 1)
}

func TestNXSignals_FlatMarket(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}
	assert.Empty(t, NXSignals(candlesFromCloses(closes), NXConfig{}))
}
