package model

import "time"

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"priceCents"`
	Stock       int       `json:"stock"`
	CategoryID  *int64    `json:"categoryId"`
	Images      []string  `json:"images"`
	OnSale      bool      `json:"onSale"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ProductUpsertRequest struct {
	Name        string   `json:"name" binding:"required"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	PriceCents  int64    `json:"priceCents" binding:"min=0"`
	Stock       int      `json:"stock" binding:"min=0"`
	CategoryID  *int64   `json:"categoryId"`
	Images      []string `json:"images"`
	OnSale      bool     `json:"onSale"`
}

type ProductListQuery struct {
	Search     string
	CategoryID int64
	OnSaleOnly bool
	Page       int
	PageSize   int
}

type ProductPage struct {
	Items    []Product `json:"items"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
}

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ParentID  *int64    `json:"parentId"`
	Sort      int       `json:"sort"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CategoryUpsertRequest struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug"`
	ParentID *int64 `json:"parentId"`
	Sort     int    `json:"sort"`
}

// CategoryNode is one node of the assembled category tree.
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children"`
}
