package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the model for the 'products' table.
// Quantity is the live stock count. It is never allowed to go negative and
// is only mutated under a row lock inside the order service's transactions.
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Slug        string          `json:"slug" db:"slug"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Discount    int             `json:"discount" db:"discount"` // percent, 0-100
	Quantity    int             `json:"quantity" db:"quantity"`
	ImageURL    string          `json:"imageUrl" db:"image_url"`
	CategoryID  *int64          `json:"categoryId,omitempty" db:"category_id"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`

	// Flattened join field for list responses
	CategoryName string `json:"categoryName,omitempty" db:"-"`
}

// DiscountedPrice returns the unit price after the percentage discount.
// The discount is applied to the unit price before quantity multiplication.
func (p *Product) DiscountedPrice() decimal.Decimal {
	if p.Discount <= 0 {
		return p.Price
	}
	off := p.Price.Mul(decimal.NewFromInt(int64(p.Discount))).Div(decimal.NewFromInt(100))
	return p.Price.Sub(off)
}
