package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chartSignals/internal/domain"
	"chartSignals/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements ports.WatchlistRepository using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository opens (creating if needed) the watchlist database.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/screener.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite serializes writes internally; the Go driver behaves best with a
	// single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}
	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "Watchlist database ready", map[string]interface{}{"path": dbPath})
	return repo, nil
}

func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS watchlist (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL UNIQUE,
		note TEXT NOT NULL DEFAULT '',
		added_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_watchlist_added_at ON watchlist (added_at);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing watchlist database")
		return r.db.Close()
	}
	return nil
}

// Add inserts a new watched symbol and returns its assigned ID.
func (r *Repository) Add(ctx context.Context, symbol, note string) (int64, error) {
	const query = `INSERT INTO watchlist (symbol, note, added_at) VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query, symbol, note, time.Now().UTC())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return 0, fmt.Errorf("symbol %s already watched: %w", symbol, ports.ErrDuplicateEntry)
		}
		return 0, fmt.Errorf("failed to insert watchlist entry for %s: %w", symbol, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for %s: %w", symbol, err)
	}
	r.logger.Debug(ctx, "Watchlist entry added", map[string]interface{}{"id": id, "symbol": symbol})
	return id, nil
}

// Remove deletes a watched symbol.
func (r *Repository) Remove(ctx context.Context, symbol string) error {
	const query = `DELETE FROM watchlist WHERE symbol = ?`
	result, err := r.db.ExecContext(ctx, query, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete watchlist entry for %s: %w", symbol, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for %s: %w", symbol, err)
	}
	if affected == 0 {
		return fmt.Errorf("symbol %s not watched: %w", symbol, ports.ErrNotFound)
	}
	r.logger.Debug(ctx, "Watchlist entry removed", map[string]interface{}{"symbol": symbol})
	return nil
}

// List retrieves all watched symbols, oldest first.
func (r *Repository) List(ctx context.Context) ([]*domain.WatchlistEntry, error) {
	const query = `SELECT id, symbol, note, added_at FROM watchlist ORDER BY added_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.WatchlistEntry, 0)
	for rows.Next() {
		e := &domain.WatchlistEntry{}
		if err := rows.Scan(&e.ID, &e.Symbol, &e.Note, &e.AddedAt); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				break
			}
			return nil, fmt.Errorf("failed to scan watchlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist rows: %w", err)
	}
	return entries, nil
}
