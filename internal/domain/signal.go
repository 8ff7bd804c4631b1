package domain

// SignalDirection represents the side of a derived signal event.
type SignalDirection string

const (
	DirectionBuy  SignalDirection = "buy"
	DirectionSell SignalDirection = "sell"
)

// SignalStrength grades an emitted signal.
type SignalStrength string

const (
	StrengthStrong SignalStrength = "strong"
)

// CDSignal is a divergence event emitted by the CD detector. The Diff,
// SignalLine and Histogram fields snapshot the MACD triple at emission time.
type CDSignal struct {
	Time       int64
	Direction  SignalDirection
	Strength   SignalStrength
	Label      string
	Diff       float64
	SignalLine float64
	Histogram  float64
}

// NXSignal is a moving-average crossover event.
type NXSignal struct {
	Time      int64
	Direction SignalDirection
	Label     string
}

// PressureSignal flags unusually strong one-sided pressure on a bar.
type PressureSignal string

const (
	PressureStrongUp   PressureSignal = "strong_up"
	PressureStrongDown PressureSignal = "strong_down"
)

// PressurePoint is one bar of the buy/sell pressure oscillator. Signal is
// empty on bars without an alert.
type PressurePoint struct {
	Time       int64
	Pressure   float64
	ChangeRate float64 // percent change of the smoothed pressure vs the prior bar
	Signal     PressureSignal
}

// LadderLevel is one bar of the ATR-banded trend channel: an inner ("blue")
// band pair around the short average and an outer ("yellow") pair around the
// long average.
type LadderLevel struct {
	Time        int64
	BlueUpper   float64
	BlueLower   float64
	YellowUpper float64
	YellowLower float64
	BlueMid     float64
	YellowMid   float64
}
