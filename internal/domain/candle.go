package domain

import "time"

// Candle is a single OHLCV bar. Time is the start of the bar's period in
// epoch milliseconds. Candles are value records; the engine never mutates
// a candle it was handed.
type Candle struct {
	Time   int64   // Start of the interval, epoch ms
	Open   float64 // Opening price
	High   float64 // Highest price
	Low    float64 // Lowest price
	Close  float64 // Closing price
	Volume float64 // Traded volume, >= 0
}

// StartTime returns the bar's start as a time.Time in UTC.
func (c Candle) StartTime() time.Time {
	return time.UnixMilli(c.Time).UTC()
}
