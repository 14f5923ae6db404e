package model

import "time"

const (
	CouponTypeFixed   = "fixed"
	CouponTypePercent = "percent"
)

type Coupon struct {
	ID            int64     `json:"id"`
	Code          string    `json:"code"`
	Type          string    `json:"type"`
	Value         int64     `json:"value"`
	MinSpendCents int64     `json:"minSpendCents"`
	UsageLimit    int       `json:"usageLimit"`
	UsedCount     int       `json:"usedCount"`
	StartsAt      time.Time `json:"startsAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CouponUpsertRequest struct {
	Code          string    `json:"code"`
	Type          string    `json:"type" binding:"required"`
	Value         int64     `json:"value" binding:"required,min=1"`
	MinSpendCents int64     `json:"minSpendCents" binding:"min=0"`
	UsageLimit    int       `json:"usageLimit" binding:"min=0"`
	StartsAt      time.Time `json:"startsAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
	Active        bool      `json:"active"`
}
