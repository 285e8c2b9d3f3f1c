package models

import "time"

// Category is the model for the 'categories' table.
type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateCategoryInput is the request body for category creation.
type CreateCategoryInput struct {
	Name string `json:"name" binding:"required"`
}
