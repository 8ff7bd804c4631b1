package ports

import (
	"context"

	"chartSignals/internal/domain"
)

// MarketDataClient supplies time-ascending candle history for an instrument.
// Implementations are expected to perform any coarser-interval aggregation
// themselves, so callers always receive bars matching the requested interval.
type MarketDataClient interface {
	// GetCandles retrieves up to limit candles for the symbol at the given
	// interval, sorted ascending by time.
	GetCandles(ctx context.Context, symbol, interval string, limit int) ([]domain.Candle, error)

	// Ping checks the connectivity to the upstream data source.
	Ping(ctx context.Context) error
}
