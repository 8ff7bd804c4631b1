package indicators

import "chartSignals/internal/domain"

const (
	testBaseTime = int64(1700000000000)
	dayMillis    = int64(86400000)
)

// candlesFromCloses builds a daily candle series from a close path. Each bar
// opens at the prior close with a half-point wick on both sides and constant
// volume, which keeps the fixtures easy to reason about.
func candlesFromCloses(closes []float64) []domain.Candle {
	out := make([]domain.Candle, len(closes))
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		high := open
		if c > high {
			high = c
		}
		low := open
		if c < low {
			low = c
		}
		out[i] = domain.Candle{
			Time:   testBaseTime + int64(i)*dayMillis,
			Open:   open,
			High:   high + 0.5,
			Low:    low - 0.5,
			Close:  c,
			Volume: 1000,
		}
	}
	return out
}

// flatThenRise: 10 flat bars, a 10-bar rally, a sharp 8-bar selloff, an
// 8-bar recovery, a long shallow decline undercutting the selloff low, then
// a 10-bar rebound. The decline makes a lower price low on a weaker MACD
// diff extreme, which is the bottom-divergence setup.
func divergenceBuyCloses() []float64 {
	var closes []float64
	for i := 0; i < 10; i++ {
		closes = append(closes, 100)
	}
	for i := 0; i < 10; i++ {
		closes = append(closes, 100+float64(i+1))
	}
	for i := 0; i < 8; i++ {
		closes = append(closes, 110-float64(i+1)*3)
	}
	for i := 0; i < 8; i++ {
		closes = append(closes, 86+float64(i+1)*1.5)
	}
	for i := 0; i < 26; i++ {
		closes = append(closes, 98-float64(i+1)*0.5)
	}
	for i := 0; i < 10; i++ {
		closes = append(closes, 85+float64(i+1)*2)
	}
	return closes
}

// divergenceSellCloses mirrors the buy path around 100 so the same shape
// plays out inverted.
func divergenceSellCloses() []float64 {
	buy := divergenceBuyCloses()
	out := make([]float64, len(buy))
	for i, c := range buy {
		out[i] = 200 - c
	}
	return out
}
