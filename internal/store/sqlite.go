package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"candlegraph/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Candles table for loaded OHLCV data
	CREATE TABLE IF NOT EXISTS candles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		timeframe TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, timeframe, timestamp)
	);

	-- One row per pipeline invocation
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		timeframe TEXT NOT NULL,
		row_count INTEGER NOT NULL,
		enter_longs INTEGER NOT NULL,
		enter_shorts INTEGER NOT NULL,
		exit_longs INTEGER NOT NULL,
		exit_shorts INTEGER NOT NULL,
		chart_path TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Triggered signals per run
	CREATE TABLE IF NOT EXISTS signals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		side TEXT NOT NULL,
		bar_index INTEGER NOT NULL,
		timestamp DATETIME NOT NULL,
		price REAL NOT NULL,
		tag TEXT,
		FOREIGN KEY (run_id) REFERENCES analysis_runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_candles_lookup ON candles(symbol, timeframe, timestamp);
	CREATE INDEX IF NOT EXISTS idx_runs_symbol ON analysis_runs(symbol, timeframe);
	CREATE INDEX IF NOT EXISTS idx_signals_run ON signals(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveCandles stores candles, replacing duplicates by timestamp.
func (s *SQLiteStore) SaveCandles(ctx context.Context, symbol string, timeframe models.Timeframe, candles []models.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO candles (symbol, timeframe, timestamp, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range candles {
		_, err := stmt.ExecContext(ctx, symbol, string(timeframe), c.Timestamp, c.Open, c.High, c.Low, c.Close, c.Volume)
		if err != nil {
			return fmt.Errorf("failed to insert candle: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetCandles retrieves candles from the database in ascending time order.
func (s *SQLiteStore) GetCandles(ctx context.Context, symbol string, timeframe models.Timeframe, from, to time.Time) ([]models.Candle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, open, high, low, close, volume
		FROM candles
		WHERE symbol = ? AND timeframe = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`, symbol, string(timeframe), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query candles: %w", err)
	}
	defer rows.Close()

	var candles []models.Candle
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan candle: %w", err)
		}
		candles = append(candles, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candles: %w", err)
	}

	return candles, nil
}

// GetCandlesFreshness returns the timestamp of the most recent candle.
func (s *SQLiteStore) GetCandlesFreshness(ctx context.Context, symbol string, timeframe models.Timeframe) (time.Time, error) {
	var timestamp sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(timestamp) FROM candles WHERE symbol = ? AND timeframe = ?
	`, symbol, string(timeframe)).Scan(&timestamp)
	if err != nil && err != sql.ErrNoRows {
		return time.Time{}, fmt.Errorf("failed to get candles freshness: %w", err)
	}
	if !timestamp.Valid {
		return time.Time{}, nil
	}
	return timestamp.Time, nil
}

// SaveRun stores an analysis run summary and returns its id.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *models.AnalysisRun) (int64, error) {
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (symbol, timeframe, row_count, enter_longs, enter_shorts, exit_longs, exit_shorts, chart_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.Symbol, string(run.Timeframe), run.Rows, run.EnterLongs, run.EnterShorts, run.ExitLongs, run.ExitShorts, run.ChartPath, createdAt)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}
	run.ID = id
	return id, nil
}

// GetRuns retrieves analysis runs, newest first.
func (s *SQLiteStore) GetRuns(ctx context.Context, filter RunFilter) ([]models.AnalysisRun, error) {
	query := `
		SELECT id, symbol, timeframe, row_count, enter_longs, enter_shorts, exit_longs, exit_shorts, chart_path, created_at
		FROM analysis_runs WHERE 1=1
	`
	args := []interface{}{}

	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if filter.Timeframe != "" {
		query += " AND timeframe = ?"
		args = append(args, string(filter.Timeframe))
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.AnalysisRun
	for rows.Next() {
		var run models.AnalysisRun
		var timeframe string
		if err := rows.Scan(&run.ID, &run.Symbol, &timeframe, &run.Rows, &run.EnterLongs, &run.EnterShorts, &run.ExitLongs, &run.ExitShorts, &run.ChartPath, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Timeframe = models.Timeframe(timeframe)
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// SaveSignals stores the triggered signals of a run.
func (s *SQLiteStore) SaveSignals(ctx context.Context, runID int64, signals []models.Signal) error {
	if len(signals) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO signals (run_id, side, bar_index, timestamp, price, tag)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, sig := range signals {
		_, err := stmt.ExecContext(ctx, runID, string(sig.Side), sig.Index, sig.Timestamp, sig.Price, sig.Tag)
		if err != nil {
			return fmt.Errorf("failed to insert signal: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetSignals retrieves the signals of a run in bar order.
func (s *SQLiteStore) GetSignals(ctx context.Context, runID int64) ([]models.Signal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT side, bar_index, timestamp, price, tag
		FROM signals
		WHERE run_id = ?
		ORDER BY bar_index ASC, id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}
	defer rows.Close()

	var signals []models.Signal
	for rows.Next() {
		var sig models.Signal
		var side string
		if err := rows.Scan(&side, &sig.Index, &sig.Timestamp, &sig.Price, &sig.Tag); err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}
		sig.Side = models.SignalSide(side)
		signals = append(signals, sig)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signals: %w", err)
	}

	return signals, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
