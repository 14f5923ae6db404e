package db

import (
	"context"
	"time"

	"github.com/modushop/backend/internal/model"
)

const adColumns = `id, title, image_url, link_url, position, sort, active, starts_at, ends_at, created_at, updated_at`

func (db *Postgres) CreateAdvertisement(ctx context.Context, a *model.Advertisement) (*model.Advertisement, error) {
	query := `
		INSERT INTO advertisements (title, image_url, link_url, position, sort, active, starts_at, ends_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + adColumns
	return scanAd(db.Pool.QueryRow(ctx, query,
		a.Title, a.ImageURL, a.LinkURL, a.Position, a.Sort, a.Active, a.StartsAt, a.EndsAt,
	))
}

func (db *Postgres) UpdateAdvertisement(ctx context.Context, a *model.Advertisement) (*model.Advertisement, error) {
	query := `
		UPDATE advertisements
		SET title = $2, image_url = $3, link_url = $4, position = $5, sort = $6,
			active = $7, starts_at = $8, ends_at = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + adColumns
	return scanAd(db.Pool.QueryRow(ctx, query,
		a.ID, a.Title, a.ImageURL, a.LinkURL, a.Position, a.Sort, a.Active, a.StartsAt, a.EndsAt,
	))
}

func (db *Postgres) GetAdvertisement(ctx context.Context, id int64) (*model.Advertisement, error) {
	query := `SELECT ` + adColumns + ` FROM advertisements WHERE id = $1`
	return scanAd(db.Pool.QueryRow(ctx, query, id))
}

func (db *Postgres) DeleteAdvertisement(ctx context.Context, id int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM advertisements WHERE id = $1`, id)
	return err
}

func (db *Postgres) ListAdvertisements(ctx context.Context) ([]model.Advertisement, error) {
	query := `SELECT ` + adColumns + ` FROM advertisements ORDER BY position, sort, id`
	return db.listAds(ctx, query)
}

// ListActiveAdvertisements returns ads live at the given instant. An empty
// position matches every placement slot.
func (db *Postgres) ListActiveAdvertisements(ctx context.Context, position string, now time.Time) ([]model.Advertisement, error) {
	query := `
		SELECT ` + adColumns + `
		FROM advertisements
		WHERE ($1 = '' OR position = $1) AND active = TRUE AND starts_at <= $2 AND ends_at > $2
		ORDER BY position, sort, id
	`
	return db.listAds(ctx, query, position, now)
}

func (db *Postgres) listAds(ctx context.Context, query string, args ...any) ([]model.Advertisement, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ads []model.Advertisement
	for rows.Next() {
		var a model.Advertisement
		if err := rows.Scan(
			&a.ID, &a.Title, &a.ImageURL, &a.LinkURL, &a.Position, &a.Sort,
			&a.Active, &a.StartsAt, &a.EndsAt, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		ads = append(ads, a)
	}
	if ads == nil {
		ads = []model.Advertisement{}
	}
	return ads, rows.Err()
}

func scanAd(row rowScanner) (*model.Advertisement, error) {
	var a model.Advertisement
	err := row.Scan(
		&a.ID, &a.Title, &a.ImageURL, &a.LinkURL, &a.Position, &a.Sort,
		&a.Active, &a.StartsAt, &a.EndsAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
