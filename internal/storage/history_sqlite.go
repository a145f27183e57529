package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chronos/internal/core/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var historySchema string

const (
	dayLayout       = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000000000Z"
)

// ErrHistoryClosed is returned by a History that has been closed.
var ErrHistoryClosed = errors.New("session history closed")

// SessionRecord is one completed session.
type SessionRecord struct {
	ID          string
	CompletedAt time.Time
	WorkMinutes float64
	RestMinutes float64
}

// History counts completed sessions in a SQLite database.
type History struct {
	db     *sql.DB
	logger zerolog.Logger
	now    func() time.Time
}

// HistoryOption customizes a History.
type HistoryOption func(*History)

// WithClock replaces the wall clock used for "today".
func WithClock(now func() time.Time) HistoryOption {
	return func(history *History) {
		history.now = now
	}
}

// WithLogger sets the history logger.
func WithLogger(logger *zerolog.Logger) HistoryOption {
	return func(history *History) {
		if logger != nil {
			history.logger = logger.With().Str("component", "history").Logger()
		}
	}
}

// OpenHistory opens or creates the history database at path.
func OpenHistory(path string, options ...HistoryOption) (*History, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA busy_timeout = 2000")

	if _, err := db.Exec(historySchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history: %w", err)
	}

	history := &History{db: db, logger: zerolog.Nop(), now: time.Now}
	for _, option := range options {
		option(history)
	}
	return history, nil
}

// Close releases the database.
func (history *History) Close() error {
	if history == nil || history.db == nil {
		return nil
	}
	err := history.db.Close()
	history.db = nil
	return err
}

// Record stores a completed session and returns the updated counters.
func (history *History) Record(ctx context.Context, record SessionRecord) (model.SessionStats, error) {
	if history == nil || history.db == nil {
		return model.SessionStats{}, ErrHistoryClosed
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CompletedAt.IsZero() {
		record.CompletedAt = history.now()
	}

	_, err := history.db.ExecContext(ctx,
		`INSERT INTO sessions(id, completed_at, day, work_minutes, rest_minutes)
		 VALUES(?,?,?,?,?)
		 ON CONFLICT(id) DO NOTHING`,
		record.ID,
		record.CompletedAt.UTC().Format(timestampLayout),
		record.CompletedAt.Format(dayLayout),
		record.WorkMinutes,
		record.RestMinutes,
	)
	if err != nil {
		return model.SessionStats{}, fmt.Errorf("record session: %w", err)
	}
	history.logger.Debug().Str("session", record.ID).Msg("session recorded")
	return history.Stats(ctx)
}

// Stats returns the total and today's session counts.
func (history *History) Stats(ctx context.Context) (model.SessionStats, error) {
	if history == nil || history.db == nil {
		return model.SessionStats{}, ErrHistoryClosed
	}
	var stats model.SessionStats
	err := history.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN day = ? THEN 1 ELSE 0 END), 0) FROM sessions`,
		history.now().Format(dayLayout),
	).Scan(&stats.TotalSessions, &stats.TodaySessions)
	if err != nil {
		return model.SessionStats{}, fmt.Errorf("query session stats: %w", err)
	}
	return stats, nil
}

// Recent returns up to limit sessions, newest first.
func (history *History) Recent(ctx context.Context, limit int) ([]SessionRecord, error) {
	if history == nil || history.db == nil {
		return nil, ErrHistoryClosed
	}
	if limit <= 0 {
		limit = 10
	}
	rows, err := history.db.QueryContext(ctx,
		`SELECT id, completed_at, work_minutes, rest_minutes FROM sessions
		 ORDER BY completed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var (
			record      SessionRecord
			completedAt string
		)
		if err := rows.Scan(&record.ID, &completedAt, &record.WorkMinutes, &record.RestMinutes); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		record.CompletedAt, err = time.Parse(timestampLayout, completedAt)
		if err != nil {
			return nil, fmt.Errorf("parse completed_at %q: %w", completedAt, err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
