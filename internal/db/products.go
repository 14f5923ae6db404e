package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/modushop/backend/internal/model"
)

const productColumns = `id, name, slug, description, price_cents, stock, category_id, images, on_sale, created_at, updated_at`

func (db *Postgres) CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	query := `
		INSERT INTO products (name, slug, description, price_cents, stock, category_id, images, on_sale, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + productColumns
	row := db.Pool.QueryRow(ctx, query,
		p.Name, p.Slug, p.Description, p.PriceCents, p.Stock, p.CategoryID, p.Images, p.OnSale,
	)
	return scanProduct(row)
}

func (db *Postgres) UpdateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	query := `
		UPDATE products
		SET name = $2, slug = $3, description = $4, price_cents = $5, stock = $6,
			category_id = $7, images = $8, on_sale = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns
	row := db.Pool.QueryRow(ctx, query,
		p.ID, p.Name, p.Slug, p.Description, p.PriceCents, p.Stock, p.CategoryID, p.Images, p.OnSale,
	)
	return scanProduct(row)
}

func (db *Postgres) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(db.Pool.QueryRow(ctx, query, id))
}

func (db *Postgres) DeleteProduct(ctx context.Context, id int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

func (db *Postgres) CountProductsInCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID).Scan(&count)
	return count, err
}

// ListProducts applies token search (every token must match the name),
// optional category and on-sale filters, and pagination.
func (db *Postgres) ListProducts(ctx context.Context, q model.ProductListQuery) ([]model.Product, int64, error) {
	where := []string{"TRUE"}
	args := []any{}

	for _, token := range strings.Fields(q.Search) {
		args = append(args, "%"+token+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if q.CategoryID > 0 {
		args = append(args, q.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if q.OnSaleOnly {
		where = append(where, "on_sale = TRUE")
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, q.PageSize, (q.Page-1)*q.PageSize)
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, productColumns, cond, len(args)-1, len(args))

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.PriceCents, &p.Stock,
			&p.CategoryID, &p.Images, &p.OnSale, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.PriceCents, &p.Stock,
		&p.CategoryID, &p.Images, &p.OnSale, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
