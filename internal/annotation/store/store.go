// Package store persists annotation platform state in PostgreSQL: the
// per-pattern-set override lookup entries and an audit row per annotation
// run.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/annotext/emoji-annotation-platform/pkg/errors"
	"github.com/annotext/emoji-annotation-platform/pkg/postgres"
	"github.com/annotext/emoji-annotation-platform/pkg/resilience"
)

// LookupEntry is one emoji description override for a pattern set.
type LookupEntry struct {
	PatternID   string    `json:"pattern_id"`
	Emoji       string    `json:"emoji"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Run is the audit record of one annotation run.
type Run struct {
	ID         string
	DocumentID string
	PatternID  string
	TokenCount int
	EmojiCount int
	Source     string
	CreatedAt  time.Time
}

// Store wraps the PostgreSQL client with annotation platform queries.
// Audit writes go through a circuit breaker so a down database stops
// costing a round trip per annotation.
type Store struct {
	db      *postgres.Client
	auditCB *resilience.CircuitBreaker
	logger  *slog.Logger
}

func New(db *postgres.Client) *Store {
	return &Store{
		db:      db,
		auditCB: resilience.NewCircuitBreaker("run-audit", resilience.CircuitBreakerConfig{}),
		logger:  slog.Default().With("component", "annotation-store"),
	}
}

// LoadLookup returns every override entry for a pattern set as an
// emoji-to-description map, ready to merge over the bundled table.
func (s *Store) LoadLookup(ctx context.Context, patternID string) (map[string]string, error) {
	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT emoji, description FROM lookup_entries WHERE pattern_id = $1`, patternID)
	if err != nil {
		return nil, fmt.Errorf("querying lookup entries for %s: %w", patternID, err)
	}
	defer rows.Close()

	lookup := make(map[string]string)
	for rows.Next() {
		var emoji, desc string
		if err := rows.Scan(&emoji, &desc); err != nil {
			return nil, fmt.Errorf("scanning lookup entry: %w", err)
		}
		lookup[emoji] = desc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lookup entries: %w", err)
	}
	return lookup, nil
}

// ListLookup returns the override entries for a pattern set ordered by
// emoji, for the management endpoint.
func (s *Store) ListLookup(ctx context.Context, patternID string) ([]LookupEntry, error) {
	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT pattern_id, emoji, description, updated_at
		 FROM lookup_entries WHERE pattern_id = $1 ORDER BY emoji`, patternID)
	if err != nil {
		return nil, fmt.Errorf("listing lookup entries for %s: %w", patternID, err)
	}
	defer rows.Close()

	var entries []LookupEntry
	for rows.Next() {
		var e LookupEntry
		if err := rows.Scan(&e.PatternID, &e.Emoji, &e.Description, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning lookup entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpsertLookupEntry inserts or replaces one override entry.
func (s *Store) UpsertLookupEntry(ctx context.Context, patternID, emoji, description string) error {
	if emoji == "" {
		return apperrors.New(apperrors.ErrInvalidInput, 400, "emoji must not be empty")
	}
	return s.db.InTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO lookup_entries (pattern_id, emoji, description, updated_at)
			 VALUES ($1, $2, $3, NOW())
			 ON CONFLICT (pattern_id, emoji)
			 DO UPDATE SET description = EXCLUDED.description, updated_at = NOW()`,
			patternID, emoji, description)
		return err
	})
}

// DeleteLookupEntry removes one override entry. Missing entries fail with
// errors.ErrDescriptionNotFound.
func (s *Store) DeleteLookupEntry(ctx context.Context, patternID, emoji string) error {
	res, err := s.db.DB.ExecContext(ctx,
		`DELETE FROM lookup_entries WHERE pattern_id = $1 AND emoji = $2`, patternID, emoji)
	if err != nil {
		return fmt.Errorf("deleting lookup entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.Newf(apperrors.ErrDescriptionNotFound, 404, "no lookup entry %q for pattern %s", emoji, patternID)
	}
	return nil
}

// RecordRun writes the audit row for one annotation run. Audit failures
// are logged, not propagated; the annotation result is already computed.
func (s *Store) RecordRun(ctx context.Context, run Run) {
	err := s.auditCB.Execute(func() error {
		_, err := s.db.DB.ExecContext(ctx,
			`INSERT INTO annotation_runs (id, document_id, pattern_id, token_count, emoji_count, source, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			run.ID, run.DocumentID, run.PatternID, run.TokenCount, run.EmojiCount, run.Source, run.CreatedAt)
		return err
	})
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			s.logger.Debug("skipping annotation run audit", "run_id", run.ID, "error", err)
			return
		}
		s.logger.Error("failed to record annotation run",
			"run_id", run.ID,
			"document_id", run.DocumentID,
			"error", err,
		)
	}
}

// RecentRuns returns the latest audit rows, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT id, document_id, pattern_id, token_count, emoji_count, source, created_at
		 FROM annotation_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying annotation runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.DocumentID, &r.PatternID, &r.TokenCount, &r.EmojiCount, &r.Source, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning annotation run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
