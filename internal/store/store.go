// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/typestage/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed-width so stored timestamps sort lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for hand-off values and result history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS handoff (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			stage_id TEXT NOT NULL,
			stage_title TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			prompts_done INTEGER NOT NULL,
			prompts_total INTEGER NOT NULL,
			score INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			wpm INTEGER NOT NULL,
			misses INTEGER NOT NULL,
			max_combo INTEGER NOT NULL,
			time_left_s INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_finished_at ON results(finished_at);`,
		`CREATE INDEX IF NOT EXISTS idx_results_stage ON results(stage_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the hand-off value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM handoff WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores a hand-off value, replacing any previous one.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO handoff (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(timeLayout))
	return err
}

// InsertResult stores a finished session.
func (s *Store) InsertResult(ctx context.Context, rec model.ResultRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("result id is empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (id, stage_id, stage_title, difficulty, started_at, finished_at, prompts_done, prompts_total, score, accuracy, wpm, misses, max_combo, time_left_s)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.StageID,
		rec.Summary.Stage,
		rec.Difficulty,
		rec.StartedAt.UTC().Format(timeLayout),
		rec.FinishedAt.UTC().Format(timeLayout),
		rec.PromptsDone,
		rec.PromptsTotal,
		rec.Summary.Score,
		rec.Summary.Accuracy,
		rec.Summary.WPM,
		rec.Summary.Misses,
		rec.Summary.MaxCombo,
		rec.TimeLeftSeconds,
	)
	return err
}

// ListResults returns results filtered by history config, oldest first.
func (s *Store) ListResults(ctx context.Context, cfg model.HistoryConfig) ([]model.ResultRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Stage != "" {
		clauses = append(clauses, "stage_id = ?")
		args = append(args, cfg.Stage)
	}
	if cfg.Difficulty != "" {
		clauses = append(clauses, "difficulty = ?")
		args = append(args, cfg.Difficulty)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "finished_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, stage_id, stage_title, difficulty, started_at, finished_at,
		prompts_done, prompts_total, score, accuracy, wpm, misses, max_combo, time_left_s
		FROM results
		WHERE %s
		ORDER BY finished_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var results []model.ResultRecord
	for rows.Next() {
		var rec model.ResultRecord
		var startedAt, finishedAt string
		if err := rows.Scan(&rec.ID, &rec.StageID, &rec.Summary.Stage, &rec.Difficulty, &startedAt, &finishedAt,
			&rec.PromptsDone, &rec.PromptsTotal, &rec.Summary.Score, &rec.Summary.Accuracy, &rec.Summary.WPM,
			&rec.Summary.Misses, &rec.Summary.MaxCombo, &rec.TimeLeftSeconds); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, err
		}
		if rec.FinishedAt, err = time.Parse(timeLayout, finishedAt); err != nil {
			return nil, err
		}
		rec.Summary.Progress = fmt.Sprintf("%d / %d", rec.PromptsDone, rec.PromptsTotal)
		rec.Summary.TimeLeft = fmt.Sprintf("%02d:%02d", rec.TimeLeftSeconds/60, rec.TimeLeftSeconds%60)
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
