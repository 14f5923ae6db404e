package db

import (
	"context"

	"github.com/modushop/backend/internal/model"
)

func (db *Postgres) CreateUser(ctx context.Context, email, passwordHash, name string, roles []string) (*model.User, error) {
	query := `
		INSERT INTO users (email, password_hash, name, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, email, password_hash, name, roles, created_at, updated_at
	`
	var user model.User
	err := db.Pool.QueryRow(ctx, query, email, passwordHash, name, roles).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Roles,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *Postgres) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, email, password_hash, name, roles, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return db.scanUser(ctx, query, email)
}

func (db *Postgres) GetUserByID(ctx context.Context, userID int64) (*model.User, error) {
	query := `
		SELECT id, email, password_hash, name, roles, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return db.scanUser(ctx, query, userID)
}

func (db *Postgres) scanUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var user model.User
	err := db.Pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Roles,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *Postgres) UpdateUserProfile(ctx context.Context, userID int64, name string) error {
	query := `
		UPDATE users
		SET name = $2, updated_at = NOW()
		WHERE id = $1
	`
	_, err := db.Pool.Exec(ctx, query, userID, name)
	return err
}

func (db *Postgres) UpdateUserPassword(ctx context.Context, userID int64, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1
	`
	_, err := db.Pool.Exec(ctx, query, userID, passwordHash)
	return err
}

func (db *Postgres) UpdateUserRoles(ctx context.Context, userID int64, roles []string) error {
	query := `
		UPDATE users
		SET roles = $2, updated_at = NOW()
		WHERE id = $1
	`
	_, err := db.Pool.Exec(ctx, query, userID, roles)
	return err
}

func (db *Postgres) ListUsers(ctx context.Context, limit, offset int) ([]model.User, int64, error) {
	var total int64
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, email, password_hash, name, roles, created_at, updated_at
		FROM users
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := db.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Roles, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if users == nil {
		users = []model.User{}
	}
	return users, total, rows.Err()
}
