package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"smcTickBot/internal/domain"
	"smcTickBot/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements the ports.TradeRepository interface using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/smc_tick_bot.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// One writer: the go-sqlite3 driver serializes anyway and this avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "Database schema initialized/verified")

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		direction TEXT NOT NULL,
		contract_type TEXT NOT NULL,
		contract_id INTEGER NOT NULL DEFAULT 0,
		stake REAL NOT NULL,
		barrier REAL NOT NULL,
		entry_price REAL NOT NULL,
		profit REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		entry_time TIMESTAMP NOT NULL,
		settle_time TIMESTAMP DEFAULT NULL,
		error TEXT DEFAULT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_trades_symbol_entry_time ON trades (symbol, entry_time);
	CREATE INDEX IF NOT EXISTS idx_trades_session ON trades (session_id);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// CreateTrade saves a new trade record and returns its assigned ID.
func (r *Repository) CreateTrade(ctx context.Context, trade *domain.Trade) (int64, error) {
	const query = `
	INSERT INTO trades (session_id, symbol, direction, contract_type, contract_id, stake, barrier,
	                    entry_price, profit, status, entry_time, settle_time, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		trade.SessionID, trade.Symbol, string(trade.Direction), trade.ContractType, trade.ContractID,
		trade.Stake, trade.Barrier, trade.EntryPrice, trade.Profit, string(trade.Status),
		trade.EntryTime, nullTime(trade.SettleTime), nullString(trade.Error))
	if err != nil {
		return 0, fmt.Errorf("failed to insert trade for symbol %s: %w: %w", trade.Symbol, ports.ErrQueryFailed, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for trade %s: %w", trade.Symbol, err)
	}
	trade.ID = id
	r.logger.Debug(ctx, "Trade journaled", map[string]interface{}{"tradeID": id, "symbol": trade.Symbol, "status": string(trade.Status)})
	return id, nil
}

// UpdateTrade stores the settlement fields of an existing trade.
func (r *Repository) UpdateTrade(ctx context.Context, trade *domain.Trade) error {
	const query = `
	UPDATE trades
	SET contract_id = ?, profit = ?, status = ?, settle_time = ?, error = ?
	WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		trade.ContractID, trade.Profit, string(trade.Status), nullTime(trade.SettleTime), nullString(trade.Error),
		trade.ID)
	if err != nil {
		return fmt.Errorf("failed to update trade ID %d: %w: %w", trade.ID, ports.ErrUpdateFailed, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for update trade ID %d: %w", trade.ID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("trade ID %d not found for update: %w", trade.ID, ports.ErrNotFound)
	}
	r.logger.Debug(ctx, "Trade updated", map[string]interface{}{"tradeID": trade.ID, "status": string(trade.Status), "profit": trade.Profit})
	return nil
}

const selectTrades = `
	SELECT id, session_id, symbol, direction, contract_type, contract_id, stake, barrier,
	       entry_price, profit, status, entry_time, settle_time, error
	FROM trades`

// FindBySymbol retrieves the most recent trades for a given symbol, up to a limit.
func (r *Repository) FindBySymbol(ctx context.Context, symbol string, limit int) ([]*domain.Trade, error) {
	rows, err := r.db.QueryContext(ctx, selectTrades+` WHERE symbol = ? ORDER BY entry_time DESC, id DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades for symbol %s: %w: %w", symbol, ports.ErrQueryFailed, err)
	}
	return collectTrades(rows)
}

// FindBySession retrieves all trades of a session ordered by entry time.
func (r *Repository) FindBySession(ctx context.Context, sessionID string) ([]*domain.Trade, error) {
	rows, err := r.db.QueryContext(ctx, selectTrades+` WHERE session_id = ? ORDER BY entry_time ASC, id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades for session %s: %w: %w", sessionID, ports.ErrQueryFailed, err)
	}
	return collectTrades(rows)
}

// --- Helper Scan Functions ---

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func collectTrades(rows *sql.Rows) ([]*domain.Trade, error) {
	defer rows.Close()

	trades := make([]*domain.Trade, 0)
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade rows: %w", err)
	}
	return trades, nil
}

// scanTrade scans a row into a domain.Trade struct.
func scanTrade(s scanner) (*domain.Trade, error) {
	t := &domain.Trade{}
	var direction, status string
	var settleTime sql.NullTime
	var errText sql.NullString
	err := s.Scan(
		&t.ID, &t.SessionID, &t.Symbol, &direction, &t.ContractType, &t.ContractID, &t.Stake, &t.Barrier,
		&t.EntryPrice, &t.Profit, &status, &t.EntryTime, &settleTime, &errText)
	if err != nil {
		return nil, err
	}
	t.Direction = domain.Direction(direction)
	t.Status = domain.TradeStatus(status)
	if settleTime.Valid {
		t.SettleTime = settleTime.Time
	}
	if errText.Valid {
		t.Error = errText.String
	}
	return t, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
