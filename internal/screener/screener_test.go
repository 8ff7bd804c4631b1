package screener

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartSignals/internal/domain"
	"chartSignals/internal/ports"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct {
	errorMsgs []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	m.errorMsgs = append(m.errorMsgs, msg)
}

// mockMarket implements ports.MarketDataClient with function fields.
type mockMarket struct {
	getCandlesFunc func(ctx context.Context, symbol, interval string, limit int) ([]domain.Candle, error)
}

func (m *mockMarket) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]domain.Candle, error) {
	return m.getCandlesFunc(ctx, symbol, interval, limit)
}

func (m *mockMarket) Ping(ctx context.Context) error { return nil }

const dayMillis = int64(86400000)

func barsFromCloses(closes []float64) []domain.Candle {
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
			Time:   1700000000000 + int64(i)*dayMillis,
			Open:   open,
			High:   high + 0.5,
			Low:    low - 0.5,
			Close:  c,
			Volume: 1000,
		}
	}
	return out
}

// divergenceCloses reproduces the bottom-divergence shape: rally, sharp
// selloff, partial recovery, a shallow decline undercutting the low, rebound.
func divergenceCloses() []float64 {
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

func uptrendCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return closes
}

func marketReturning(candles []domain.Candle) *mockMarket {
	return &mockMarket{
		getCandlesFunc: func(ctx context.Context, symbol, interval string, limit int) ([]domain.Candle, error) {
			return candles, nil
		},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		market  ports.MarketDataClient
		logger  ports.Logger
		wantErr bool
	}{
		{"valid deps", marketReturning(nil), &mockLogger{}, false},
		{"nil market", nil, &mockLogger{}, true},
		{"nil logger", marketReturning(nil), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(Config{}, tt.market, tt.logger, nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, s)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, s)
			}
		})
	}
}

func TestScanSymbol_SurfacesDivergenceSignal(t *testing.T) {
	candles := barsFromCloses(divergenceCloses())
	s, err := New(Config{}, marketReturning(candles), &mockLogger{}, nil)
	require.NoError(t, err)

	res, err := s.ScanSymbol(context.Background(), "BTCUSDT", "1d")
	require.NoError(t, err)

	// The easing confirmation lands ten bars before the end of this shape,
	// inside the default lookback window.
	require.Len(t, res.CDSignals, 1)
	assert.Equal(t, domain.DirectionBuy, res.CDSignals[0].Direction)
	assert.Equal(t, "bottom-fish", res.CDSignals[0].Label)
	assert.True(t, res.HasSignals())
}

func TestScanSymbol_LookbackWindowFiltersOldSignals(t *testing.T) {
	candles := barsFromCloses(divergenceCloses())
	s, err := New(Config{LookbackBars: 5}, marketReturning(candles), &mockLogger{}, nil)
	require.NoError(t, err)

	res, err := s.ScanSymbol(context.Background(), "BTCUSDT", "1d")
	require.NoError(t, err)
	assert.Empty(t, res.CDSignals)
}

func TestScanSymbol_TrendStrong(t *testing.T) {
	candles := barsFromCloses(uptrendCloses(100))
	s, err := New(Config{}, marketReturning(candles), &mockLogger{}, nil)
	require.NoError(t, err)

	res, err := s.ScanSymbol(context.Background(), "ETHUSDT", "1d")
	require.NoError(t, err)
	assert.True(t, res.TrendStrong)
	assert.Empty(t, res.CDSignals)
	assert.Empty(t, res.NXSignals)
	assert.Nil(t, res.PressureAlert)
	assert.True(t, res.HasSignals())
}

func TestScanSymbol_InsufficientHistory(t *testing.T) {
	candles := barsFromCloses(uptrendCloses(5))
	s, err := New(Config{}, marketReturning(candles), &mockLogger{}, nil)
	require.NoError(t, err)

	res, err := s.ScanSymbol(context.Background(), "BTCUSDT", "1d")
	require.NoError(t, err)
	assert.False(t, res.HasSignals())
}

func TestScanSymbol_FetchError(t *testing.T) {
	market := &mockMarket{
		getCandlesFunc: func(ctx context.Context, symbol, interval string, limit int) ([]domain.Candle, error) {
			return nil, ports.ErrExchangeUnavailable
		},
	}
	s, err := New(Config{}, market, &mockLogger{}, nil)
	require.NoError(t, err)

	_, err = s.ScanSymbol(context.Background(), "BTCUSDT", "1d")
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrExchangeUnavailable)
}

func TestScan_ContinuesPastFailingSymbol(t *testing.T) {
	good := barsFromCloses(uptrendCloses(100))
	market := &mockMarket{
		getCandlesFunc: func(ctx context.Context, symbol, interval string, limit int) ([]domain.Candle, error) {
			if symbol == "BADUSDT" {
				return nil, errors.New("boom")
			}
			return good, nil
		},
	}
	log := &mockLogger{}
	s, err := New(Config{}, market, log, nil)
	require.NoError(t, err)

	results := s.Scan(context.Background(), []string{"BADUSDT", "ETHUSDT"})
	require.Len(t, results, 1)
	assert.Equal(t, "ETHUSDT", results[0].Symbol)
	assert.NotEmpty(t, log.errorMsgs)
}

func TestScan_HonorsCanceledContext(t *testing.T) {
	s, err := New(Config{}, marketReturning(nil), &mockLogger{}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := s.Scan(ctx, []string{"BTCUSDT", "ETHUSDT"})
	assert.Empty(t, results)
}

func TestScan_CoversAllIntervals(t *testing.T) {
	var calls []string
	market := &mockMarket{
		getCandlesFunc: func(ctx context.Context, symbol, interval string, limit int) ([]domain.Candle, error) {
			calls = append(calls, symbol+"/"+interval)
			return nil, nil
		},
	}
	s, err := New(Config{Intervals: []string{"1h", "1d"}}, market, &mockLogger{}, nil)
	require.NoError(t, err)

	results := s.Scan(context.Background(), []string{"BTCUSDT"})
	assert.Len(t, results, 2)
	assert.Equal(t, []string{"BTCUSDT/1h", "BTCUSDT/1d"}, calls)
}
