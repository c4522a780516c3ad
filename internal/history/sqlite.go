package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/termtypr/termtypr/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteStore is the durable Repository backed by a local SQLite file.
type SQLiteStore struct {
	db      *sql.DB
	logger  *log.Logger
	skipped int
}

var _ Repository = (*SQLiteStore)(nil)

// Open opens or creates the SQLite database and applies migrations.
func Open(path string, logger *log.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = log.Default()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	store := &SQLiteStore{db: db, logger: logger}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		// Synchronous commits keep a saved result durable even if the
		// process dies right after Save returns.
		`PRAGMA synchronous = FULL;`,
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY,
			mode TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			word_count INTEGER NOT NULL,
			error_count INTEGER NOT NULL,
			target_text TEXT NOT NULL,
			typed_marks TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_mode ON results(mode);`,
		`CREATE INDEX IF NOT EXISTS idx_results_ended_at ON results(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save appends a completed session. The insert is committed before Save
// returns.
func (s *SQLiteStore) Save(ctx context.Context, result model.GameResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (mode, started_at, ended_at, wpm, accuracy, word_count, error_count, target_text, typed_marks)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(result.Mode),
		result.StartedAt.Format(time.RFC3339Nano),
		result.EndedAt.Format(time.RFC3339Nano),
		result.WPM,
		result.Accuracy,
		result.WordCount,
		result.ErrorCount,
		result.Target,
		model.EncodeMarks(result.Typed),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// LoadAll returns all readable records in insertion order. Malformed rows
// are skipped and counted rather than failing the whole load.
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]model.GameResult, error) {
	return s.load(ctx, `SELECT mode, started_at, ended_at, wpm, accuracy, word_count, error_count, target_text, typed_marks
		FROM results ORDER BY id ASC`)
}

// LoadRecent returns the last n records, oldest of the window first.
func (s *SQLiteStore) LoadRecent(ctx context.Context, n int) ([]model.GameResult, error) {
	if n <= 0 {
		return nil, nil
	}
	results, err := s.load(ctx, `SELECT mode, started_at, ended_at, wpm, accuracy, word_count, error_count, target_text, typed_marks
		FROM results ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

// FindBest returns the highest-WPM record, optionally filtered by mode.
func (s *SQLiteStore) FindBest(ctx context.Context, mode *model.Mode) (*model.GameResult, error) {
	results, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return bestOf(filterMode(results, mode)), nil
}

// Skipped reports how many corrupt rows the last load dropped.
func (s *SQLiteStore) Skipped() int {
	return s.skipped
}

// Clear removes all history. Administrative operation; nothing in the
// session path calls it.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM results`); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) load(ctx context.Context, query string, args ...any) ([]model.GameResult, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var results []model.GameResult
	skipped := 0
	for rows.Next() {
		var (
			modeStr   string
			startedAt string
			endedAt   string
			marks     string
			result    model.GameResult
		)
		if err := rows.Scan(&modeStr, &startedAt, &endedAt, &result.WPM, &result.Accuracy,
			&result.WordCount, &result.ErrorCount, &result.Target, &marks); err != nil {
			skipped++
			s.logger.Warn("skipping unreadable history row", "err", err)
			continue
		}
		parsed, err := parseRow(modeStr, startedAt, endedAt, marks, &result)
		if err != nil {
			skipped++
			s.logger.Warn("skipping corrupt history record", "err", err)
			continue
		}
		results = append(results, parsed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	s.skipped = skipped
	if skipped > 0 {
		s.logger.Warn("history load dropped corrupt records", "skipped", skipped)
	}
	return results, nil
}

func parseRow(modeStr, startedAt, endedAt, marks string, result *model.GameResult) (model.GameResult, error) {
	mode, err := model.ParseMode(modeStr)
	if err != nil {
		return model.GameResult{}, err
	}
	start, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return model.GameResult{}, fmt.Errorf("bad started_at: %w", err)
	}
	end, err := time.Parse(time.RFC3339Nano, endedAt)
	if err != nil {
		return model.GameResult{}, fmt.Errorf("bad ended_at: %w", err)
	}
	typed, err := model.DecodeMarks(marks)
	if err != nil {
		return model.GameResult{}, err
	}
	if result.WPM < 0 || result.Accuracy < 0 || result.Accuracy > 100 {
		return model.GameResult{}, fmt.Errorf("metrics out of range: wpm=%f accuracy=%f", result.WPM, result.Accuracy)
	}
	result.Mode = mode
	result.StartedAt = start
	result.EndedAt = end
	result.Typed = typed
	return *result, nil
}
