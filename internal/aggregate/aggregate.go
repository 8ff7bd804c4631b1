// Package aggregate buckets fine-grained candles into coarser bars before
// the indicator components run: sub-daily session blocks (AM/PM halves of a
// trading day) and calendar months. It also owns the display-time shift used
// when charting sub-daily intervals.
package aggregate

import (
	"sort"
	"time"

	"chartSignals/internal/domain"
)

// SessionBuckets combines bars into AM/PM session blocks of their trading
// day. The exchange-local hour is approximated by subtracting a
// daylight-saving offset from the UTC hour: 4 hours for UTC months
// March-November, else 5. Bars with a local hour before 14 fall into the
// day's AM block, the rest into PM. Within a block the first open, max high,
// min low, last close and summed volume are kept, stamped with the first
// bar's time. Output is sorted ascending by time.
func SessionBuckets(candles []domain.Candle) []domain.Candle {
	return fold(candles, func(c domain.Candle) string {
		t := c.StartTime()
		offset := 5
		if m := int(t.Month()) - 1; m >= 2 && m <= 10 {
			offset = 4
		}
		localHour := (t.Hour() - offset + 24) % 24
		half := "AM"
		if localHour >= 14 {
			half = "PM"
		}
		return t.Format("2006-01-02") + "-" + half
	})
}

// MonthlyBuckets combines bars into calendar months keyed by wall-clock
// local time. Note this path intentionally uses the process's local clock
// rather than the UTC-offset approximation of SessionBuckets; the two
// aggregation paths have always disagreed on their clock model and callers
// rely on the documented behavior of each.
func MonthlyBuckets(candles []domain.Candle) []domain.Candle {
	return fold(candles, func(c domain.Candle) string {
		return time.UnixMilli(c.Time).Format("2006-01")
	})
}

// fold groups candles by key, combining OHLCV within each group, and
// returns the groups sorted ascending by their first bar's time.
func fold(candles []domain.Candle, keyFn func(domain.Candle) string) []domain.Candle {
	if len(candles) == 0 {
		return nil
	}
	buckets := make(map[string]*domain.Candle, len(candles))
	for _, c := range candles {
		key := keyFn(c)
		b, ok := buckets[key]
		if !ok {
			cc := c
			buckets[key] = &cc
			continue
		}
		if c.High > b.High {
			b.High = c.High
		}
		if c.Low < b.Low {
			b.Low = c.Low
		}
		b.Close = c.Close
		b.Volume += c.Volume
	}
	out := make([]domain.Candle, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// Interval identifies a charting interval.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
	Interval1d  Interval = "1d"
	Interval1w  Interval = "1w"
	Interval1M  Interval = "1M"
)

// DefaultInterval is the fallback for unrecognized interval strings.
const DefaultInterval = Interval1d

var intervalDurations = map[Interval]time.Duration{
	Interval1m:  time.Minute,
	Interval5m:  5 * time.Minute,
	Interval15m: 15 * time.Minute,
	Interval30m: 30 * time.Minute,
	Interval1h:  time.Hour,
	Interval4h:  4 * time.Hour,
}

// ParseInterval maps an interval string onto a known Interval, falling back
// to DefaultInterval for anything unrecognized.
func ParseInterval(s string) Interval {
	switch iv := Interval(s); iv {
	case Interval1m, Interval5m, Interval15m, Interval30m,
		Interval1h, Interval4h, Interval1d, Interval1w, Interval1M:
		return iv
	default:
		return DefaultInterval
	}
}

// SubDaily reports whether the interval is finer than a day.
func (iv Interval) SubDaily() bool {
	_, ok := intervalDurations[iv]
	return ok
}

// ShiftDisplayTimes returns a copy of the candles with sub-daily bars moved
// forward by the interval's duration, so a bar stamped with its period start
// displays at its period end (a 09:30 bar on a 30m chart shows as 10:00).
// Daily and coarser bars pass through unchanged.
func ShiftDisplayTimes(candles []domain.Candle, iv Interval) []domain.Candle {
	out := make([]domain.Candle, len(candles))
	copy(out, candles)
	d, ok := intervalDurations[iv]
	if !ok {
		return out
	}
	for i := range out {
		out[i].Time += d.Milliseconds()
	}
	return out
}
