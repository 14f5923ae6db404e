package db

import (
	"context"

	"github.com/modushop/backend/internal/model"
)

const couponColumns = `id, code, type, value, min_spend_cents, usage_limit, used_count, starts_at, expires_at, active, created_at, updated_at`

func (db *Postgres) CreateCoupon(ctx context.Context, c *model.Coupon) (*model.Coupon, error) {
	query := `
		INSERT INTO coupons (code, type, value, min_spend_cents, usage_limit, starts_at, expires_at, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + couponColumns
	return scanCoupon(db.Pool.QueryRow(ctx, query,
		c.Code, c.Type, c.Value, c.MinSpendCents, c.UsageLimit, c.StartsAt, c.ExpiresAt, c.Active,
	))
}

func (db *Postgres) UpdateCoupon(ctx context.Context, c *model.Coupon) (*model.Coupon, error) {
	query := `
		UPDATE coupons
		SET type = $2, value = $3, min_spend_cents = $4, usage_limit = $5,
			starts_at = $6, expires_at = $7, active = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + couponColumns
	return scanCoupon(db.Pool.QueryRow(ctx, query,
		c.ID, c.Type, c.Value, c.MinSpendCents, c.UsageLimit, c.StartsAt, c.ExpiresAt, c.Active,
	))
}

func (db *Postgres) GetCoupon(ctx context.Context, id int64) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`
	return scanCoupon(db.Pool.QueryRow(ctx, query, id))
}

func (db *Postgres) GetCouponByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`
	return scanCoupon(db.Pool.QueryRow(ctx, query, code))
}

func (db *Postgres) DeleteCoupon(ctx context.Context, id int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	return err
}

func (db *Postgres) ListCoupons(ctx context.Context) ([]model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []model.Coupon
	for rows.Next() {
		var c model.Coupon
		if err := rows.Scan(
			&c.ID, &c.Code, &c.Type, &c.Value, &c.MinSpendCents, &c.UsageLimit, &c.UsedCount,
			&c.StartsAt, &c.ExpiresAt, &c.Active, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	if coupons == nil {
		coupons = []model.Coupon{}
	}
	return coupons, rows.Err()
}

func scanCoupon(row rowScanner) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(
		&c.ID, &c.Code, &c.Type, &c.Value, &c.MinSpendCents, &c.UsageLimit, &c.UsedCount,
		&c.StartsAt, &c.ExpiresAt, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
