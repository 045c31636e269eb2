package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/faktbot/faktbot/internal/domain"
)

// Ledger defines persistence operations for the seen-fact ledger and the
// per-user language preference. Every mutation is committed before the call
// returns; the acquisition engine relies on that to never show a fact whose
// (user, fact) pair is already recorded.
type Ledger interface {
	HasSeen(ctx context.Context, userID int64, factID string) (bool, error)
	MarkSeen(ctx context.Context, userID int64, factID string) error
	Language(ctx context.Context, userID int64) (string, error)
	SetLanguage(ctx context.Context, userID int64, lang string) error
}

type sqlLedger struct {
	db  *sqlx.DB
	log *slog.Logger
}

// NewLedger creates a SQL-backed ledger.
func NewLedger(db *sqlx.DB, log *slog.Logger) Ledger {
	return &sqlLedger{
		db:  db,
		log: log,
	}
}

// HasSeen reports whether the (user, fact) pair is already recorded.
func (r *sqlLedger) HasSeen(ctx context.Context, userID int64, factID string) (bool, error) {
	query := r.db.Rebind(`SELECT 1 FROM seen_facts WHERE user_id = ? AND fact_id = ?`)

	var one int
	err := r.db.GetContext(ctx, &one, query, userID, factID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		r.logError("has_seen", userID, err)
		return false, fmt.Errorf("select seen fact: %w", err)
	}

	return true, nil
}

// MarkSeen records the pair. Inserting an already-present pair is a no-op: the
// unique index plus ON CONFLICT DO NOTHING makes the insert atomic and
// idempotent without in-process locking.
func (r *sqlLedger) MarkSeen(ctx context.Context, userID int64, factID string) error {
	query := r.db.Rebind(`
		INSERT INTO seen_facts (user_id, fact_id)
		VALUES (?, ?)
		ON CONFLICT (user_id, fact_id) DO NOTHING
	`)

	if _, err := r.db.ExecContext(ctx, query, userID, factID); err != nil {
		r.logError("mark_seen", userID, err)
		return fmt.Errorf("insert seen fact: %w", err)
	}

	return nil
}

// Language returns the stored preference, or the default for unknown users.
func (r *sqlLedger) Language(ctx context.Context, userID int64) (string, error) {
	query := r.db.Rebind(`SELECT lang FROM users WHERE id = ?`)

	var lang string
	err := r.db.GetContext(ctx, &lang, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultLanguage, nil
		}

		r.logError("language", userID, err)
		return "", fmt.Errorf("select user language: %w", err)
	}

	if !domain.KnownLanguage(lang) {
		return domain.DefaultLanguage, nil
	}

	return lang, nil
}

// SetLanguage upserts the preference, creating the user row on first pick.
// Last write wins.
func (r *sqlLedger) SetLanguage(ctx context.Context, userID int64, lang string) error {
	if !domain.KnownLanguage(lang) {
		return fmt.Errorf("unknown language %q", lang)
	}

	query := r.db.Rebind(`
		INSERT INTO users (id, lang)
		VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET lang = excluded.lang
	`)

	if _, err := r.db.ExecContext(ctx, query, userID, lang); err != nil {
		r.logError("set_language", userID, err)
		return fmt.Errorf("upsert user language: %w", err)
	}

	return nil
}

func (r *sqlLedger) logError(operation string, userID int64, err error) {
	if r.log == nil || err == nil {
		return
	}

	r.log.Error("ledger operation failed",
		slog.String("operation", operation),
		slog.Int64("user_id", userID),
		slog.Any("error", err),
	)
}
