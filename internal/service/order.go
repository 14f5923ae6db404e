package service

import (
	"context"
	"errors"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/modushop/backend/internal/db"
	"github.com/modushop/backend/internal/model"
)

const orderNumberAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// orderTransitions lists the allowed status moves. Cancellation is only
// possible before shipment.
var orderTransitions = map[string][]string{
	model.OrderStatusPending: {model.OrderStatusPaid, model.OrderStatusCancelled},
	model.OrderStatusPaid:    {model.OrderStatusShipped, model.OrderStatusCancelled},
	model.OrderStatusShipped: {model.OrderStatusCompleted},
}

func CanTransition(from, to string) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type OrderService struct {
	repo    *db.Postgres
	coupons *CouponService
}

func NewOrderService(repo *db.Postgres, coupons *CouponService) *OrderService {
	return &OrderService{repo: repo, coupons: coupons}
}

// Create prices the requested items from the catalog, applies an optional
// coupon and persists the order; stock is decremented transactionally by the
// store.
func (s *OrderService) Create(ctx context.Context, userID int64, req model.OrderCreateRequest) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrInvalidInput
	}

	var subtotal int64
	items := make([]model.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		if line.Quantity < 1 {
			return nil, ErrInvalidInput
		}
		product, err := s.repo.GetProduct(ctx, line.ProductID)
		if err != nil {
			if db.IsNoRows(err) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if product.Stock < line.Quantity {
			return nil, ErrOutOfStock
		}
		items = append(items, model.OrderItem{
			ProductID:  product.ID,
			Name:       product.Name,
			PriceCents: product.PriceCents,
			Quantity:   line.Quantity,
		})
		subtotal += product.PriceCents * int64(line.Quantity)
	}

	var discount int64
	var couponID *int64
	if req.CouponCode != "" {
		coupon, d, err := s.coupons.Resolve(ctx, req.CouponCode, subtotal, time.Now())
		if err != nil {
			return nil, err
		}
		discount = d
		couponID = &coupon.ID
	}

	number, err := gonanoid.Generate(orderNumberAlphabet, 14)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.CreateOrder(ctx, &model.Order{
		Number:        number,
		UserID:        userID,
		Status:        model.OrderStatusPending,
		SubtotalCents: subtotal,
		DiscountCents: discount,
		TotalCents:    subtotal - discount,
		CouponID:      couponID,
		Items:         items,
	})
	if err != nil {
		if errors.Is(err, db.ErrInsufficientStock) {
			return nil, ErrOutOfStock
		}
		return nil, err
	}
	return order, nil
}

// Get returns the order; non-admin callers only see their own.
func (s *OrderService) Get(ctx context.Context, id int64, user *model.AuthUser) (*model.Order, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if order.UserID != user.ID && !user.HasRole(RoleAdmin) {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, userID int64, page, pageSize int) (*model.OrderPage, error) {
	page, pageSize = normalizePage(page, pageSize)
	items, total, err := s.repo.ListOrders(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return &model.OrderPage{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *OrderService) SetStatus(ctx context.Context, id int64, status string) (*model.Order, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !CanTransition(order.Status, status) {
		return nil, ErrOrderState
	}

	if status == model.OrderStatusCancelled {
		if err := s.repo.CancelOrder(ctx, order); err != nil {
			return nil, err
		}
	} else if err := s.repo.UpdateOrderStatus(ctx, id, status); err != nil {
		return nil, err
	}

	return s.repo.GetOrder(ctx, id)
}

// Cancel is the customer-facing cancellation: own orders, pending only.
func (s *OrderService) Cancel(ctx context.Context, id int64, user *model.AuthUser) (*model.Order, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if order.UserID != user.ID && !user.HasRole(RoleAdmin) {
		return nil, ErrForbidden
	}
	if order.Status != model.OrderStatusPending {
		return nil, ErrOrderState
	}

	if err := s.repo.CancelOrder(ctx, order); err != nil {
		return nil, err
	}
	return s.repo.GetOrder(ctx, id)
}
