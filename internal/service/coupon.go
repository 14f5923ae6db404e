package service

import (
	"context"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/modushop/backend/internal/db"
	"github.com/modushop/backend/internal/model"
)

const couponCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type CouponService struct {
	repo *db.Postgres
}

func NewCouponService(repo *db.Postgres) *CouponService {
	return &CouponService{repo: repo}
}

func (s *CouponService) Create(ctx context.Context, req model.CouponUpsertRequest) (*model.Coupon, error) {
	coupon, err := couponFromRequest(req)
	if err != nil {
		return nil, err
	}

	if coupon.Code == "" {
		code, err := gonanoid.Generate(couponCodeAlphabet, 10)
		if err != nil {
			return nil, err
		}
		coupon.Code = code
	}

	created, err := s.repo.CreateCoupon(ctx, coupon)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return created, nil
}

func (s *CouponService) Update(ctx context.Context, id int64, req model.CouponUpsertRequest) (*model.Coupon, error) {
	coupon, err := couponFromRequest(req)
	if err != nil {
		return nil, err
	}
	coupon.ID = id

	updated, err := s.repo.UpdateCoupon(ctx, coupon)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *CouponService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteCoupon(ctx, id)
}

func (s *CouponService) List(ctx context.Context) ([]model.Coupon, error) {
	return s.repo.ListCoupons(ctx)
}

// Resolve looks up a coupon by code and checks it against the subtotal,
// returning the discount it grants. ErrCouponInvalid covers every rejection:
// unknown, inactive, out of window, exhausted, or below minimum spend.
func (s *CouponService) Resolve(ctx context.Context, code string, subtotalCents int64, now time.Time) (*model.Coupon, int64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, 0, ErrCouponInvalid
	}

	coupon, err := s.repo.GetCouponByCode(ctx, code)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, 0, ErrCouponInvalid
		}
		return nil, 0, err
	}

	discount, err := CouponDiscount(coupon, subtotalCents, now)
	if err != nil {
		return nil, 0, err
	}
	return coupon, discount, nil
}

// CouponDiscount computes the discount a coupon grants on a subtotal, or
// ErrCouponInvalid when it does not apply. The discount never exceeds the
// subtotal.
func CouponDiscount(c *model.Coupon, subtotalCents int64, now time.Time) (int64, error) {
	if !c.Active {
		return 0, ErrCouponInvalid
	}
	if now.Before(c.StartsAt) || !now.Before(c.ExpiresAt) {
		return 0, ErrCouponInvalid
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return 0, ErrCouponInvalid
	}
	if subtotalCents < c.MinSpendCents {
		return 0, ErrCouponInvalid
	}

	var discount int64
	switch c.Type {
	case model.CouponTypeFixed:
		discount = c.Value
	case model.CouponTypePercent:
		if c.Value > 100 {
			return 0, ErrCouponInvalid
		}
		discount = subtotalCents * c.Value / 100
	default:
		return 0, ErrCouponInvalid
	}

	if discount > subtotalCents {
		discount = subtotalCents
	}
	return discount, nil
}

func couponFromRequest(req model.CouponUpsertRequest) (*model.Coupon, error) {
	if req.Type != model.CouponTypeFixed && req.Type != model.CouponTypePercent {
		return nil, ErrInvalidInput
	}
	if req.Value <= 0 || (req.Type == model.CouponTypePercent && req.Value > 100) {
		return nil, ErrInvalidInput
	}

	startsAt := req.StartsAt
	if startsAt.IsZero() {
		startsAt = time.Now()
	}
	if req.ExpiresAt.IsZero() || !req.ExpiresAt.After(startsAt) {
		return nil, ErrInvalidInput
	}

	return &model.Coupon{
		Code:          strings.ToUpper(strings.TrimSpace(req.Code)),
		Type:          req.Type,
		Value:         req.Value,
		MinSpendCents: req.MinSpendCents,
		UsageLimit:    req.UsageLimit,
		StartsAt:      startsAt,
		ExpiresAt:     req.ExpiresAt,
		Active:        req.Active,
	}, nil
}
