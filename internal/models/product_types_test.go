package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDiscountedPrice(t *testing.T) {
	cases := []struct {
		name     string
		price    string
		discount int
		want     string
	}{
		{"no discount", "100.00", 0, "100.00"},
		{"quarter off", "200.00", 25, "150"},
		{"full discount", "50.00", 100, "0"},
		{"odd split keeps precision", "99.99", 10, "89.991"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Product{Price: decimal.RequireFromString(tc.price), Discount: tc.discount}
			got := p.DiscountedPrice()
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s, want %s", got, tc.want)
		})
	}
}
