package service

import (
	"errors"
	"testing"
	"time"

	"github.com/modushop/backend/internal/model"
)

func validCoupon() *model.Coupon {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	return &model.Coupon{
		Code:      "SUMMER10",
		Type:      model.CouponTypePercent,
		Value:     10,
		StartsAt:  now.Add(-24 * time.Hour),
		ExpiresAt: now.Add(24 * time.Hour),
		Active:    true,
	}
}

func TestCouponDiscount(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("percent", func(t *testing.T) {
		got, err := CouponDiscount(validCoupon(), 10000, now)
		if err != nil {
			t.Fatalf("CouponDiscount: %v", err)
		}
		if got != 1000 {
			t.Fatalf("discount = %d, want 1000", got)
		}
	})

	t.Run("fixed", func(t *testing.T) {
		c := validCoupon()
		c.Type = model.CouponTypeFixed
		c.Value = 500
		got, err := CouponDiscount(c, 10000, now)
		if err != nil {
			t.Fatalf("CouponDiscount: %v", err)
		}
		if got != 500 {
			t.Fatalf("discount = %d, want 500", got)
		}
	})

	t.Run("fixed capped at subtotal", func(t *testing.T) {
		c := validCoupon()
		c.Type = model.CouponTypeFixed
		c.Value = 5000
		got, err := CouponDiscount(c, 3000, now)
		if err != nil {
			t.Fatalf("CouponDiscount: %v", err)
		}
		if got != 3000 {
			t.Fatalf("discount = %d, want capped 3000", got)
		}
	})

	t.Run("inactive", func(t *testing.T) {
		c := validCoupon()
		c.Active = false
		if _, err := CouponDiscount(c, 10000, now); !errors.Is(err, ErrCouponInvalid) {
			t.Fatalf("got %v, want ErrCouponInvalid", err)
		}
	})

	t.Run("not started", func(t *testing.T) {
		c := validCoupon()
		c.StartsAt = now.Add(time.Hour)
		if _, err := CouponDiscount(c, 10000, now); !errors.Is(err, ErrCouponInvalid) {
			t.Fatalf("got %v, want ErrCouponInvalid", err)
		}
	})

	t.Run("expired at boundary", func(t *testing.T) {
		c := validCoupon()
		c.ExpiresAt = now
		if _, err := CouponDiscount(c, 10000, now); !errors.Is(err, ErrCouponInvalid) {
			t.Fatalf("got %v, want ErrCouponInvalid", err)
		}
	})

	t.Run("usage exhausted", func(t *testing.T) {
		c := validCoupon()
		c.UsageLimit = 3
		c.UsedCount = 3
		if _, err := CouponDiscount(c, 10000, now); !errors.Is(err, ErrCouponInvalid) {
			t.Fatalf("got %v, want ErrCouponInvalid", err)
		}
	})

	t.Run("zero usage limit means unlimited", func(t *testing.T) {
		c := validCoupon()
		c.UsageLimit = 0
		c.UsedCount = 1000
		if _, err := CouponDiscount(c, 10000, now); err != nil {
			t.Fatalf("CouponDiscount: %v", err)
		}
	})

	t.Run("below minimum spend", func(t *testing.T) {
		c := validCoupon()
		c.MinSpendCents = 5000
		if _, err := CouponDiscount(c, 4999, now); !errors.Is(err, ErrCouponInvalid) {
			t.Fatalf("got %v, want ErrCouponInvalid", err)
		}
		if _, err := CouponDiscount(c, 5000, now); err != nil {
			t.Fatalf("at minimum spend: %v", err)
		}
	})

	t.Run("percent over 100", func(t *testing.T) {
		c := validCoupon()
		c.Value = 150
		if _, err := CouponDiscount(c, 10000, now); !errors.Is(err, ErrCouponInvalid) {
			t.Fatalf("got %v, want ErrCouponInvalid", err)
		}
	})
}

func TestCouponFromRequestValidation(t *testing.T) {
	expires := time.Now().Add(24 * time.Hour)

	if _, err := couponFromRequest(model.CouponUpsertRequest{Type: "bogus", Value: 10, ExpiresAt: expires}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad type: got %v, want ErrInvalidInput", err)
	}
	if _, err := couponFromRequest(model.CouponUpsertRequest{Type: model.CouponTypePercent, Value: 101, ExpiresAt: expires}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("percent over 100: got %v, want ErrInvalidInput", err)
	}
	if _, err := couponFromRequest(model.CouponUpsertRequest{Type: model.CouponTypeFixed, Value: 500}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing expiry: got %v, want ErrInvalidInput", err)
	}

	coupon, err := couponFromRequest(model.CouponUpsertRequest{
		Code:      " welcome5 ",
		Type:      model.CouponTypeFixed,
		Value:     500,
		ExpiresAt: expires,
		Active:    true,
	})
	if err != nil {
		t.Fatalf("couponFromRequest: %v", err)
	}
	if coupon.Code != "WELCOME5" {
		t.Fatalf("code = %q, want WELCOME5", coupon.Code)
	}
	if coupon.StartsAt.IsZero() {
		t.Fatal("StartsAt not defaulted")
	}
}
