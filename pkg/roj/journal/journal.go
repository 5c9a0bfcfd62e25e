// Package journal keeps a persistent record of program runs in SQLite.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	// SQLite driver (pure Go, no CGO required)
	_ "modernc.org/sqlite"
)

// Status is how a run ended.
type Status string

const (
	StatusOK     Status = "ok"
	StatusHalted Status = "halted"
	StatusError  Status = "error"
)

// Journal records runs in a SQLite database, dropping the oldest entries
// once the database outgrows its size limit.
type Journal struct {
	mu          sync.RWMutex
	db          *sql.DB
	path        string
	maxSize     int64 // bytes, 0 for no limit
	truncatePct int
}

// Entry is one recorded run.
type Entry struct {
	ID        int64
	Timestamp time.Time
	Source    string // file name, or <inline> / <repl>
	Mode      string // file, inline, repl, watch
	Status    Status
	Result    string // repr of the final value or halt payload
	ErrorCode string
	Message   string
	Lines     int // out lines written
	Duration  time.Duration
}

// Config holds journal settings.
type Config struct {
	Path        string
	MaxSize     int64
	TruncatePct int
}

const timeLayout = time.RFC3339Nano

// Open opens or creates the journal database at cfg.Path.
func Open(cfg Config) (*Journal, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("journal path is required")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to journal database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	j := &Journal{
		db:          db,
		path:        cfg.Path,
		maxSize:     cfg.MaxSize,
		truncatePct: cfg.TruncatePct,
	}
	if j.truncatePct <= 0 || j.truncatePct > 100 {
		j.truncatePct = 25
	}

	if err := j.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}
	return j, nil
}

func (j *Journal) createSchema() error {
	_, err := j.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT NOT NULL,
			source TEXT NOT NULL,
			mode TEXT NOT NULL,
			status TEXT NOT NULL,
			result TEXT NOT NULL DEFAULT '',
			error_code TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL DEFAULT '',
			lines INTEGER NOT NULL DEFAULT 0,
			duration_ns INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	`)
	return err
}

// Record appends an entry. A zero Timestamp means now.
func (j *Journal) Record(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.maybeTruncate(); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] journal truncation failed: %v\n", err)
	}

	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	_, err := j.db.Exec(`
		INSERT INTO runs (timestamp, source, mode, status, result, error_code, message, lines, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.Timestamp.UTC().Format(timeLayout), e.Source, e.Mode, string(e.Status),
		e.Result, e.ErrorCode, e.Message, e.Lines, int64(e.Duration))
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// Entries returns the most recent runs first. limit <= 0 means 100.
func (j *Journal) Entries(limit int) ([]Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	rows, err := j.db.Query(`
		SELECT id, timestamp, source, mode, status, result, error_code, message, lines, duration_ns
		FROM runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts, status string
		var duration int64
		if err := rows.Scan(&e.ID, &ts, &e.Source, &e.Mode, &status, &e.Result, &e.ErrorCode, &e.Message, &e.Lines, &duration); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, err := time.Parse(timeLayout, ts); err == nil {
			e.Timestamp = t
		}
		e.Status = Status(status)
		e.Duration = time.Duration(duration)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of recorded runs.
func (j *Journal) Count() (int, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var count int
	err := j.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}

// Clear removes every entry.
func (j *Journal) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec("DELETE FROM runs")
	return err
}

// Size returns the bytes used on disk, write-ahead log included.
func (j *Journal) Size() (int64, error) {
	var total int64
	for _, p := range []string{j.path, j.path + "-wal"} {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
		total += info.Size()
	}
	return total, nil
}

// maybeTruncate drops the oldest truncatePct percent of entries once the
// database reaches maxSize. Must be called with the lock held.
func (j *Journal) maybeTruncate() error {
	if j.maxSize <= 0 {
		return nil
	}

	size, err := j.Size()
	if err != nil {
		return err
	}
	if size < j.maxSize {
		return nil
	}

	var total int
	if err := j.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&total); err != nil {
		return err
	}
	if total == 0 {
		return nil
	}

	deleteCount := max(total*j.truncatePct/100, 1)
	_, err = j.db.Exec(`
		DELETE FROM runs WHERE id IN (
			SELECT id FROM runs ORDER BY id ASC LIMIT ?
		)
	`, deleteCount)
	if err != nil {
		return fmt.Errorf("truncating journal: %w", err)
	}
	return nil
}

// Close closes the database.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.db.Close()
}

// Path returns the database file path.
func (j *Journal) Path() string {
	return j.path
}
