package service

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrMisconfigured = errors.New("auth config invalid")

	ErrOutOfStock    = errors.New("insufficient stock")
	ErrCouponInvalid = errors.New("coupon not applicable")
	ErrOrderState    = errors.New("invalid order status transition")
	ErrCategoryInUse = errors.New("category still referenced")
)
