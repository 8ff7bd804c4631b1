package ports

import (
	"context"

	"chartSignals/internal/domain"
)

// WatchlistRepository stores the user-maintained set of watched instruments.
type WatchlistRepository interface {
	// Add inserts a new watched symbol and returns its assigned ID.
	// Returns ErrDuplicateEntry if the symbol is already watched.
	Add(ctx context.Context, symbol, note string) (int64, error)
	// Remove deletes a watched symbol. Returns ErrNotFound if absent.
	Remove(ctx context.Context, symbol string) error
	// List retrieves all watched symbols, oldest first.
	List(ctx context.Context) ([]*domain.WatchlistEntry, error)
}
