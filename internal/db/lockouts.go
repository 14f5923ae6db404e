package db

import (
	"context"
	"time"

	"github.com/modushop/backend/internal/model"
)

const lockoutColumns = `id, email, ip, reason, lock_count, attempt_count, lock_until, is_unlocked, unlocked_at, last_attempt_at, created_at`

// GetLockout returns the record for the key regardless of lock state.
// The (email, ip, reason) key is unique, so at most one row exists.
func (db *Postgres) GetLockout(ctx context.Context, email, ip string, reason model.LockReason) (*model.LockoutRecord, error) {
	query := `
		SELECT ` + lockoutColumns + `
		FROM lockouts
		WHERE email = $1 AND ip = $2 AND reason = $3
	`
	var rec model.LockoutRecord
	err := db.Pool.QueryRow(ctx, query, email, ip, string(reason)).Scan(
		&rec.ID,
		&rec.Email,
		&rec.IP,
		&rec.Reason,
		&rec.LockCount,
		&rec.AttemptCount,
		&rec.LockUntil,
		&rec.IsUnlocked,
		&rec.UnlockedAt,
		&rec.LastAttemptAt,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (db *Postgres) UpsertLockout(ctx context.Context, rec *model.LockoutRecord) error {
	query := `
		INSERT INTO lockouts (email, ip, reason, lock_count, attempt_count, lock_until, is_unlocked, unlocked_at, last_attempt_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, NULL, $7)
		ON CONFLICT (email, ip, reason)
		DO UPDATE SET
			lock_count = EXCLUDED.lock_count,
			attempt_count = EXCLUDED.attempt_count,
			lock_until = EXCLUDED.lock_until,
			is_unlocked = FALSE,
			unlocked_at = NULL,
			last_attempt_at = EXCLUDED.last_attempt_at
	`
	_, err := db.Pool.Exec(ctx, query,
		rec.Email, rec.IP, string(rec.Reason),
		rec.LockCount, rec.AttemptCount, rec.LockUntil, rec.LastAttemptAt,
	)
	return err
}

// MarkLockoutUnlocked persists the auto-unlock transition for a single record.
func (db *Postgres) MarkLockoutUnlocked(ctx context.Context, id int64, now time.Time) error {
	query := `
		UPDATE lockouts
		SET is_unlocked = TRUE, unlocked_at = $2, attempt_count = 0
		WHERE id = $1 AND is_unlocked = FALSE
	`
	_, err := db.Pool.Exec(ctx, query, id, now)
	return err
}

// UnlockAll clears every active lock for (email, ip) across all reasons.
// lock_count is deliberately left alone so escalation memory survives.
func (db *Postgres) UnlockAll(ctx context.Context, email, ip string, now time.Time) error {
	query := `
		UPDATE lockouts
		SET is_unlocked = TRUE, unlocked_at = $3, attempt_count = 0
		WHERE email = $1 AND ip = $2 AND is_unlocked = FALSE
	`
	_, err := db.Pool.Exec(ctx, query, email, ip, now)
	return err
}

func (db *Postgres) DeleteStaleLockouts(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `
		DELETE FROM lockouts
		WHERE last_attempt_at < $1
	`
	tag, err := db.Pool.Exec(ctx, query, olderThan)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
