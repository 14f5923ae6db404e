package model

import "time"

type Advertisement struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"imageUrl"`
	LinkURL   string    `json:"linkUrl"`
	Position  string    `json:"position"`
	Sort      int       `json:"sort"`
	Active    bool      `json:"active"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AdvertisementUpsertRequest struct {
	Title    string    `json:"title" binding:"required"`
	ImageURL string    `json:"imageUrl" binding:"required"`
	LinkURL  string    `json:"linkUrl"`
	Position string    `json:"position" binding:"required"`
	Sort     int       `json:"sort"`
	Active   bool      `json:"active"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
}
