package db

import (
	"context"

	"github.com/modushop/backend/internal/model"
)

const categoryColumns = `id, name, slug, parent_id, sort, created_at, updated_at`

func (db *Postgres) CreateCategory(ctx context.Context, c *model.Category) (*model.Category, error) {
	query := `
		INSERT INTO categories (name, slug, parent_id, sort, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + categoryColumns
	return scanCategory(db.Pool.QueryRow(ctx, query, c.Name, c.Slug, c.ParentID, c.Sort))
}

func (db *Postgres) UpdateCategory(ctx context.Context, c *model.Category) (*model.Category, error) {
	query := `
		UPDATE categories
		SET name = $2, slug = $3, parent_id = $4, sort = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + categoryColumns
	return scanCategory(db.Pool.QueryRow(ctx, query, c.ID, c.Name, c.Slug, c.ParentID, c.Sort))
}

func (db *Postgres) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	return scanCategory(db.Pool.QueryRow(ctx, query, id))
}

func (db *Postgres) DeleteCategory(ctx context.Context, id int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	return err
}

func (db *Postgres) ListCategories(ctx context.Context) ([]model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY sort, id`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.Sort, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, rows.Err()
}

func (db *Postgres) CountChildCategories(ctx context.Context, parentID int64) (int64, error) {
	var count int64
	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE parent_id = $1`, parentID).Scan(&count)
	return count, err
}

func scanCategory(row rowScanner) (*model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.Sort, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
