package db

import (
	"context"

	"github.com/modushop/backend/internal/model"
)

const postColumns = `id, title, summary, content, cover_image, published, created_at, updated_at`

func (db *Postgres) CreatePost(ctx context.Context, p *model.Post) (*model.Post, error) {
	query := `
		INSERT INTO posts (title, summary, content, cover_image, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING ` + postColumns
	return scanPost(db.Pool.QueryRow(ctx, query, p.Title, p.Summary, p.Content, p.CoverImage, p.Published))
}

func (db *Postgres) UpdatePost(ctx context.Context, p *model.Post) (*model.Post, error) {
	query := `
		UPDATE posts
		SET title = $2, summary = $3, content = $4, cover_image = $5, published = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + postColumns
	return scanPost(db.Pool.QueryRow(ctx, query, p.ID, p.Title, p.Summary, p.Content, p.CoverImage, p.Published))
}

func (db *Postgres) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	return scanPost(db.Pool.QueryRow(ctx, query, id))
}

func (db *Postgres) DeletePost(ctx context.Context, id int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	return err
}

func (db *Postgres) ListPosts(ctx context.Context, publishedOnly bool, limit, offset int) ([]model.Post, int64, error) {
	cond := ``
	if publishedOnly {
		cond = `WHERE published = TRUE`
	}

	var total int64
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts `+cond).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + postColumns + ` FROM posts ` + cond + ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := db.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Summary, &p.Content, &p.CoverImage, &p.Published, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return posts, total, rows.Err()
}

func scanPost(row rowScanner) (*model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.Title, &p.Summary, &p.Content, &p.CoverImage, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
