package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tunegrab/tunegrab-api/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLite is a JobStore backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if necessary) the database under dataDir and
// applies the schema.
func NewSQLite(dataDir string) (*SQLite, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "jobs.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single writer: serialize all access through one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := configureDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	slog.Info("Database initialized", "path", dbPath)

	return &SQLite{db: db}, nil
}

func configureDB(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=10000",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	return nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			platform TEXT NOT NULL,
			format TEXT NOT NULL,
			quality TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			progress INTEGER NOT NULL DEFAULT 0,
			result_file_url TEXT,
			metadata TEXT,
			error TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
		CREATE INDEX IF NOT EXISTS idx_jobs_created ON jobs(created_at);

		CREATE TABLE IF NOT EXISTS recent_searches (
			query TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL
		);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) CreateJob(ctx context.Context, job *domain.Job) error {
	var meta sql.NullString
	if job.Metadata != nil {
		raw, err := json.Marshal(job.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata: %w", err)
		}
		meta = sql.NullString{String: string(raw), Valid: true}
	}

	query := `
		INSERT INTO jobs (id, url, platform, format, quality, status, progress, result_file_url, metadata, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		job.ID,
		job.URL,
		job.Platform,
		job.Format,
		job.Quality,
		job.Status,
		job.Progress,
		nullable(job.ResultFileURL),
		meta,
		nullable(job.Error),
		job.CreatedAt,
		job.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

func (s *SQLite) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	query := `
		SELECT id, url, platform, format, quality, status, progress, result_file_url, metadata, error, created_at, updated_at
		FROM jobs
		WHERE id = ?
	`

	job, err := scanJob(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return job, nil
}

func (s *SQLite) UpdateJob(ctx context.Context, id string, upd JobUpdate) (*domain.Job, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *upd.Status)
	}
	if upd.Progress != nil {
		sets = append(sets, "progress = ?")
		args = append(args, *upd.Progress)
	}
	if upd.ResultFileURL != nil {
		sets = append(sets, "result_file_url = ?")
		args = append(args, *upd.ResultFileURL)
	}
	if upd.Metadata != nil {
		raw, err := json.Marshal(upd.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to encode metadata: %w", err)
		}
		sets = append(sets, "metadata = ?")
		args = append(args, string(raw))
	}
	if upd.Error != nil {
		sets = append(sets, "error = ?")
		args = append(args, *upd.Error)
	}

	args = append(args, id)
	query := "UPDATE jobs SET " + strings.Join(sets, ", ") + " WHERE id = ?"

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, domain.ErrJobNotFound
	}

	return s.GetJob(ctx, id)
}

func (s *SQLite) ListRecentJobs(ctx context.Context, limit int) ([]*domain.Job, error) {
	query := `
		SELECT id, url, platform, format, quality, status, progress, result_file_url, metadata, error, created_at, updated_at
		FROM jobs
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

func (s *SQLite) AddRecentSearch(ctx context.Context, query string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// INSERT OR REPLACE moves an existing query to the front by refreshing
	// its timestamp; the primary key guarantees exact-match dedup.
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO recent_searches (query, created_at) VALUES (?, ?)`,
		query, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM recent_searches
		WHERE query NOT IN (
			SELECT query FROM recent_searches ORDER BY created_at DESC LIMIT ?
		)`, MaxRecentSearches,
	); err != nil {
		return fmt.Errorf("failed to prune searches: %w", err)
	}

	return tx.Commit()
}

func (s *SQLite) RecentSearches(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT query FROM recent_searches ORDER BY created_at DESC LIMIT ?`,
		MaxRecentSearches,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list searches: %w", err)
	}
	defer rows.Close()

	var queries []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("failed to scan search: %w", err)
		}
		queries = append(queries, q)
	}

	return queries, rows.Err()
}

// scanner abstracts *sql.Row and *sql.Rows for scanJob.
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*domain.Job, error) {
	job := &domain.Job{}
	var resultFileURL, metadata, errMsg sql.NullString

	err := row.Scan(
		&job.ID,
		&job.URL,
		&job.Platform,
		&job.Format,
		&job.Quality,
		&job.Status,
		&job.Progress,
		&resultFileURL,
		&metadata,
		&errMsg,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	job.ResultFileURL = resultFileURL.String
	job.Error = errMsg.String
	if metadata.Valid {
		meta := &domain.Metadata{}
		if err := json.Unmarshal([]byte(metadata.String), meta); err != nil {
			return nil, fmt.Errorf("failed to decode metadata: %w", err)
		}
		job.Metadata = meta
	}

	return job, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
