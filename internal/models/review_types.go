package models

import "time"

// Review is the model for the 'reviews' table.
type Review struct {
	ID           int64     `json:"id" db:"id"`
	ProductID    int64     `json:"productId" db:"product_id"`
	ReviewerName string    `json:"reviewerName" db:"reviewer_name"`
	Rating       int       `json:"rating" db:"rating"` // 1-5
	Comment      string    `json:"comment" db:"comment"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
