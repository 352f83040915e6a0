package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"covid-spread/domain/history"
	"covid-spread/domain/metrics"
	"covid-spread/domain/timeseries"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned when no run has the requested ID
var ErrRunNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	backend TEXT NOT NULL,
	normalization TEXT NOT NULL,
	first_day INTEGER NOT NULL,
	last_day INTEGER NOT NULL,
	frames INTEGER NOT NULL,
	video_path TEXT,
	video_url TEXT
);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

CREATE TABLE IF NOT EXISTS run_summaries (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	region TEXT NOT NULL,
	day INTEGER NOT NULL,
	confirmed REAL NOT NULL,
	deaths REAL NOT NULL,
	recovered REAL,
	cases_per_100k REAL NOT NULL,
	deaths_per_100k REAL NOT NULL,
	case_fatality REAL NOT NULL,
	new_cases REAL NOT NULL,
	new_deaths REAL NOT NULL,
	PRIMARY KEY (run_id, position)
);
`

// SQLiteStore implements history.Store on a SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// Open opens or creates the history database at path
func Open(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// one connection keeps pragmas and in-memory databases consistent
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	if _, err := s.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Record implements history.Store
func (s *SQLiteStore) Record(ctx context.Context, run history.Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, backend, normalization, first_day, last_day, frames, video_path, video_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli(), run.Backend, run.Normalization,
		int(run.FirstDay), int(run.LastDay), run.Frames, run.VideoPath, run.VideoURL)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for i, sum := range run.Summaries {
		var recovered sql.NullFloat64
		if sum.HasRecovered {
			recovered = sql.NullFloat64{Float64: sum.Recovered, Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_summaries (run_id, position, region, day, confirmed, deaths, recovered,
				cases_per_100k, deaths_per_100k, case_fatality, new_cases, new_deaths)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, sum.Region, int(sum.Day), sum.Confirmed, sum.Deaths, recovered,
			sum.CasesPer100k, sum.DeathsPer100k, sum.CaseFatality, sum.DailyNewConfirm, sum.DailyNewDeaths)
		if err != nil {
			return "", fmt.Errorf("failed to insert summary of %s: %w", sum.Region, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return run.ID, nil
}

// List implements history.Store. Summaries are not loaded.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]history.Run, error) {
	query := `SELECT id, started_at, finished_at, backend, normalization, first_day, last_day, frames,
		COALESCE(video_path, ''), COALESCE(video_url, '')
		FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []history.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get implements history.Store
func (s *SQLiteStore) Get(ctx context.Context, id string) (history.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, started_at, finished_at, backend, normalization, first_day, last_day, frames,
		COALESCE(video_path, ''), COALESCE(video_url, '')
		FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return history.Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return history.Run{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT region, day, confirmed, deaths, recovered, cases_per_100k, deaths_per_100k, case_fatality, new_cases, new_deaths
		FROM run_summaries WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return history.Run{}, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sum       metrics.Summary
			day       int
			recovered sql.NullFloat64
		)
		if err := rows.Scan(&sum.Region, &day, &sum.Confirmed, &sum.Deaths, &recovered,
			&sum.CasesPer100k, &sum.DeathsPer100k, &sum.CaseFatality, &sum.DailyNewConfirm, &sum.DailyNewDeaths); err != nil {
			return history.Run{}, fmt.Errorf("failed to scan summary: %w", err)
		}
		sum.Day = timeseries.Day(day)
		sum.Recovered, sum.HasRecovered = recovered.Float64, recovered.Valid
		run.Summaries = append(run.Summaries, sum)
	}
	return run, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (history.Run, error) {
	var (
		run               history.Run
		started, finished int64
		firstDay, lastDay int
	)
	err := row.Scan(&run.ID, &started, &finished, &run.Backend, &run.Normalization,
		&firstDay, &lastDay, &run.Frames, &run.VideoPath, &run.VideoURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return history.Run{}, err
		}
		return history.Run{}, fmt.Errorf("failed to scan run: %w", err)
	}
	run.StartedAt = time.UnixMilli(started).UTC()
	run.FinishedAt = time.UnixMilli(finished).UTC()
	run.FirstDay = timeseries.Day(firstDay)
	run.LastDay = timeseries.Day(lastDay)
	return run, nil
}

// Ensure SQLiteStore implements history.Store
var _ history.Store = (*SQLiteStore)(nil)
