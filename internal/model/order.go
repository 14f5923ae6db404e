package model

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID            int64       `json:"id"`
	Number        string      `json:"number"`
	UserID        int64       `json:"userId"`
	Status        string      `json:"status"`
	SubtotalCents int64       `json:"subtotalCents"`
	DiscountCents int64       `json:"discountCents"`
	TotalCents    int64       `json:"totalCents"`
	CouponID      *int64      `json:"couponId"`
	Items         []OrderItem `json:"items,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

type OrderItem struct {
	ID         int64  `json:"id"`
	OrderID    int64  `json:"orderId"`
	ProductID  int64  `json:"productId"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int    `json:"quantity"`
}

type OrderCreateRequest struct {
	Items      []OrderItemRequest `json:"items" binding:"required,min=1"`
	CouponCode string             `json:"couponCode"`
}

type OrderItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type OrderPage struct {
	Items    []Order `json:"items"`
	Total    int64   `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
}
