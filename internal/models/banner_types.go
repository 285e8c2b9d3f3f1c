package models

import "time"

// Banner is the model for the 'banners' table (storefront hero images).
type Banner struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	ImageURL  string    `json:"imageUrl" db:"image_url"`
	LinkURL   string    `json:"linkUrl" db:"link_url"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
