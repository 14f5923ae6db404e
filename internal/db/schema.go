package db

import "context"

func (db *Postgres) EnsureSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			roles TEXT[] NOT NULL DEFAULT '{user}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`
		CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			refresh_token_hash TEXT NOT NULL UNIQUE,
			issued_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			refreshed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			expires_at TIMESTAMPTZ NOT NULL,
			expired BOOLEAN NOT NULL DEFAULT FALSE
		)
		`,
		`CREATE INDEX IF NOT EXISTS sessions_user_id_idx ON sessions(user_id)`,
		`
		CREATE TABLE IF NOT EXISTS lockouts (
			id BIGSERIAL PRIMARY KEY,
			email TEXT NOT NULL,
			ip TEXT NOT NULL,
			reason TEXT NOT NULL,
			lock_count INT NOT NULL DEFAULT 0,
			attempt_count INT NOT NULL DEFAULT 0,
			lock_until TIMESTAMPTZ NOT NULL,
			is_unlocked BOOLEAN NOT NULL DEFAULT FALSE,
			unlocked_at TIMESTAMPTZ,
			last_attempt_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (email, ip, reason)
		)
		`,
		`CREATE INDEX IF NOT EXISTS lockouts_last_attempt_idx ON lockouts(last_attempt_at)`,
		`
		CREATE TABLE IF NOT EXISTS categories (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			parent_id BIGINT REFERENCES categories(id),
			sort INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`
		CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			price_cents BIGINT NOT NULL DEFAULT 0,
			stock INT NOT NULL DEFAULT 0,
			category_id BIGINT REFERENCES categories(id),
			images TEXT[] NOT NULL DEFAULT '{}',
			on_sale BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE INDEX IF NOT EXISTS products_category_id_idx ON products(category_id)`,
		`
		CREATE TABLE IF NOT EXISTS coupons (
			id BIGSERIAL PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			type TEXT NOT NULL,
			value BIGINT NOT NULL,
			min_spend_cents BIGINT NOT NULL DEFAULT 0,
			usage_limit INT NOT NULL DEFAULT 0,
			used_count INT NOT NULL DEFAULT 0,
			starts_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			expires_at TIMESTAMPTZ NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`
		CREATE TABLE IF NOT EXISTS orders (
			id BIGSERIAL PRIMARY KEY,
			number TEXT NOT NULL UNIQUE,
			user_id BIGINT NOT NULL REFERENCES users(id),
			status TEXT NOT NULL DEFAULT 'pending',
			subtotal_cents BIGINT NOT NULL DEFAULT 0,
			discount_cents BIGINT NOT NULL DEFAULT 0,
			total_cents BIGINT NOT NULL DEFAULT 0,
			coupon_id BIGINT REFERENCES coupons(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE INDEX IF NOT EXISTS orders_user_id_idx ON orders(user_id)`,
		`
		CREATE TABLE IF NOT EXISTS order_items (
			id BIGSERIAL PRIMARY KEY,
			order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id BIGINT NOT NULL REFERENCES products(id),
			name TEXT NOT NULL,
			price_cents BIGINT NOT NULL,
			quantity INT NOT NULL
		)
		`,
		`CREATE INDEX IF NOT EXISTS order_items_order_id_idx ON order_items(order_id)`,
		`
		CREATE TABLE IF NOT EXISTS posts (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			cover_image TEXT NOT NULL DEFAULT '',
			published BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`
		CREATE TABLE IF NOT EXISTS advertisements (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			image_url TEXT NOT NULL,
			link_url TEXT NOT NULL DEFAULT '',
			position TEXT NOT NULL,
			sort INT NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			starts_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			ends_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}
