package binanceclient

import (
	"io"
	"testing"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartSignals/internal/adapters/logger"
	"chartSignals/internal/aggregate"
	"chartSignals/internal/domain"
)

func testLogger() *logger.StdLogger {
	return logger.NewWithWriter(logger.LevelError, io.Discard)
}

func TestNew_RequiresLogger(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)

	c, err := New(Config{Logger: testLogger()})
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestParseKline(t *testing.T) {
	k := &binance.Kline{
		OpenTime: 1700000000000,
		Open:     "100.5",
		High:     "110.25",
		Low:      "99.75",
		Close:    "105.0",
		Volume:   "1234.56",
	}
	got, err := parseKline(k)
	require.NoError(t, err)
	assert.Equal(t, domain.Candle{
		Time:   1700000000000,
		Open:   100.5,
		High:   110.25,
		Low:    99.75,
		Close:  105.0,
		Volume: 1234.56,
	}, got)
}

func TestParseKline_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		kline *binance.Kline
	}{
		{"bad open", &binance.Kline{Open: "x", High: "1", Low: "1", Close: "1", Volume: "1"}},
		{"bad high", &binance.Kline{Open: "1", High: "", Low: "1", Close: "1", Volume: "1"}},
		{"bad volume", &binance.Kline{Open: "1", High: "1", Low: "1", Close: "1", Volume: "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseKline(tt.kline)
			assert.Error(t, err)
		})
	}
}

func TestResolveFetch(t *testing.T) {
	tests := []struct {
		name         string
		interval     aggregate.Interval
		limit        int
		wantInterval string
		wantLimit    int
		wantCombine  bool
	}{
		{
			name:         "native hourly",
			interval:     aggregate.Interval1h,
			limit:        200,
			wantInterval: "1h",
			wantLimit:    200,
			wantCombine:  false,
		},
		{
			name:         "session blocks fetch hourly",
			interval:     aggregate.Interval4h,
			limit:        50,
			wantInterval: "1h",
			wantLimit:    600,
			wantCombine:  true,
		},
		{
			name:         "session blocks capped at exchange limit",
			interval:     aggregate.Interval4h,
			limit:        200,
			wantInterval: "1h",
			wantLimit:    1000,
			wantCombine:  true,
		},
		{
			name:         "months fetch daily",
			interval:     aggregate.Interval1M,
			limit:        12,
			wantInterval: "1d",
			wantLimit:    372,
			wantCombine:  true,
		},
		{
			name:         "native daily",
			interval:     aggregate.Interval1d,
			limit:        500,
			wantInterval: "1d",
			wantLimit:    500,
			wantCombine:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotInterval, gotLimit, combine := resolveFetch(tt.interval, tt.limit)
			assert.Equal(t, tt.wantInterval, gotInterval)
			assert.Equal(t, tt.wantLimit, gotLimit)
			if tt.wantCombine {
				assert.NotNil(t, combine)
			} else {
				assert.Nil(t, combine)
			}
		})
	}
}

func TestCandleCache(t *testing.T) {
	now := time.Now()
	cache := newCandleCache(time.Minute)
	cache.now = func() time.Time { return now }

	candles := []domain.Candle{{Time: 1, Close: 100}}
	cache.put("BTCUSDT|1d|10", candles)

	got, ok := cache.get("BTCUSDT|1d|10")
	require.True(t, ok)
	assert.Equal(t, candles, got)

	_, ok = cache.get("ETHUSDT|1d|10")
	assert.False(t, ok)

	// Advance past the TTL; the entry expires.
	cache.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, ok = cache.get("BTCUSDT|1d|10")
	assert.False(t, ok)
}

func TestCandleCache_DisabledByZeroTTL(t *testing.T) {
	cache := newCandleCache(0)
	cache.put("key", []domain.Candle{{Time: 1}})
	_, ok := cache.get("key")
	assert.False(t, ok)
}
