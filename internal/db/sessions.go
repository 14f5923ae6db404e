package db

import (
	"context"
	"time"

	"github.com/modushop/backend/internal/model"
)

func (db *Postgres) CreateSession(ctx context.Context, s *model.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, refresh_token_hash, issued_at, refreshed_at, expires_at, expired)
		VALUES ($1, $2, $3, $4, $4, $5, FALSE)
	`
	_, err := db.Pool.Exec(ctx, query, s.ID, s.UserID, s.RefreshTokenHash, s.IssuedAt, s.ExpiresAt)
	return err
}

func (db *Postgres) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	query := `
		SELECT id, user_id, refresh_token_hash, issued_at, refreshed_at, expires_at, expired
		FROM sessions
		WHERE id = $1
	`
	var s model.Session
	err := db.Pool.QueryRow(ctx, query, sessionID).Scan(
		&s.ID,
		&s.UserID,
		&s.RefreshTokenHash,
		&s.IssuedAt,
		&s.RefreshedAt,
		&s.ExpiresAt,
		&s.Expired,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (db *Postgres) RefreshSession(ctx context.Context, sessionID, newTokenHash string, expiresAt time.Time) error {
	query := `
		UPDATE sessions
		SET refresh_token_hash = $2, refreshed_at = NOW(), expires_at = $3
		WHERE id = $1 AND expired = FALSE
	`
	_, err := db.Pool.Exec(ctx, query, sessionID, newTokenHash, expiresAt)
	return err
}

func (db *Postgres) ExpireSession(ctx context.Context, sessionID string) error {
	query := `
		UPDATE sessions
		SET expired = TRUE
		WHERE id = $1 AND expired = FALSE
	`
	_, err := db.Pool.Exec(ctx, query, sessionID)
	return err
}

func (db *Postgres) DeleteDeadSessions(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE expired = TRUE OR expires_at < $1
	`
	tag, err := db.Pool.Exec(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
