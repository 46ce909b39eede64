package domain

import (
	"time"
)

// Size names corresponding to positions in a product's price list. A product
// with a single price is sold in one size only.
var sizeNames = []string{"Small", "Medium", "Large"}

// MaxSizes is the number of supported size tiers per product.
const MaxSizes = 3

// SizeName returns the display name for a price-list position.
func SizeName(index int) string {
	if index < 0 || index >= len(sizeNames) {
		return ""
	}
	return sizeNames[index]
}

// ExtraOption is an optional paid addition to a product (e.g. extra cheese).
// Price is in cents.
type ExtraOption struct {
	Text  string `json:"text"`
	Price int64  `json:"price"`
}

// Product represents a menu item. Prices holds one price per size tier in
// cents, positionally matching SizeName.
type Product struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Prices      []int64       `json:"prices"`
	CategoryID  *string       `json:"category_id,omitempty"`
	Image       string        `json:"image"`
	Extras      []ExtraOption `json:"extras,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// PriceFor returns the price for the given size index and whether the index
// is within the product's price list.
func (p *Product) PriceFor(sizeIndex int) (int64, bool) {
	if sizeIndex < 0 || sizeIndex >= len(p.Prices) {
		return 0, false
	}
	return p.Prices[sizeIndex], true
}

// Category groups products on the menu.
type Category struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
