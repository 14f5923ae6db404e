package db

import (
	"context"
	"errors"

	"github.com/modushop/backend/internal/model"
)

var ErrInsufficientStock = errors.New("insufficient stock")

const orderColumns = `id, number, user_id, status, subtotal_cents, discount_cents, total_cents, coupon_id, created_at, updated_at`

// CreateOrder inserts the order with its items, decrements product stock and
// bumps coupon usage in one transaction. Stock is decremented conditionally;
// a concurrent order that drains stock first surfaces as ErrInsufficientStock.
func (db *Postgres) CreateOrder(ctx context.Context, o *model.Order) (*model.Order, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var created model.Order
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (number, user_id, status, subtotal_cents, discount_cents, total_cents, coupon_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING `+orderColumns,
		o.Number, o.UserID, o.Status, o.SubtotalCents, o.DiscountCents, o.TotalCents, o.CouponID,
	).Scan(
		&created.ID, &created.Number, &created.UserID, &created.Status,
		&created.SubtotalCents, &created.DiscountCents, &created.TotalCents,
		&created.CouponID, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, item := range o.Items {
		tag, err := tx.Exec(ctx, `
			UPDATE products
			SET stock = stock - $1, updated_at = NOW()
			WHERE id = $2 AND stock >= $1
		`, item.Quantity, item.ProductID)
		if err != nil {
			return nil, err
		}
		if tag.RowsAffected() == 0 {
			return nil, ErrInsufficientStock
		}

		var itemID int64
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, name, price_cents, quantity)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, created.ID, item.ProductID, item.Name, item.PriceCents, item.Quantity).Scan(&itemID)
		if err != nil {
			return nil, err
		}
		item.ID = itemID
		item.OrderID = created.ID
		created.Items = append(created.Items, item)
	}

	if o.CouponID != nil {
		if _, err := tx.Exec(ctx, `
			UPDATE coupons
			SET used_count = used_count + 1, updated_at = NOW()
			WHERE id = $1
		`, *o.CouponID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &created, nil
}

func (db *Postgres) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	var o model.Order
	err := db.Pool.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Number, &o.UserID, &o.Status,
		&o.SubtotalCents, &o.DiscountCents, &o.TotalCents,
		&o.CouponID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	items, err := db.getOrderItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (db *Postgres) getOrderItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, order_id, product_id, name, price_cents, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.PriceCents, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if items == nil {
		items = []model.OrderItem{}
	}
	return items, rows.Err()
}

// ListOrders returns orders newest first; userID 0 means all users (admin view).
func (db *Postgres) ListOrders(ctx context.Context, userID int64, limit, offset int) ([]model.Order, int64, error) {
	cond := ``
	countArgs := []any{}
	args := []any{limit, offset}
	if userID > 0 {
		cond = `WHERE user_id = $1`
		countArgs = append(countArgs, userID)
		args = []any{userID, limit, offset}
	}

	var total int64
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders `+cond, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders ` + cond + ` ORDER BY created_at DESC`
	if userID > 0 {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(
			&o.ID, &o.Number, &o.UserID, &o.Status,
			&o.SubtotalCents, &o.DiscountCents, &o.TotalCents,
			&o.CouponID, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, total, rows.Err()
}

func (db *Postgres) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`
	_, err := db.Pool.Exec(ctx, query, id, status)
	return err
}

// CancelOrder marks the order cancelled and restores stock and coupon usage.
func (db *Postgres) CancelOrder(ctx context.Context, o *model.Order) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`, o.ID, model.OrderStatusCancelled); err != nil {
		return err
	}

	for _, item := range o.Items {
		if _, err := tx.Exec(ctx, `
			UPDATE products
			SET stock = stock + $1, updated_at = NOW()
			WHERE id = $2
		`, item.Quantity, item.ProductID); err != nil {
			return err
		}
	}

	if o.CouponID != nil {
		if _, err := tx.Exec(ctx, `
			UPDATE coupons
			SET used_count = GREATEST(used_count - 1, 0), updated_at = NOW()
			WHERE id = $1
		`, *o.CouponID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
