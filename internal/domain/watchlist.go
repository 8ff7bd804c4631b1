package domain

import "time"

// WatchlistEntry is a user-watched instrument the screener includes in its
// scan universe.
type WatchlistEntry struct {
	ID      int64
	Symbol  string
	Note    string
	AddedAt time.Time
}
