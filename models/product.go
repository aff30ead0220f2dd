package models

import (
	"strings"
	"time"
)

// MaxProductImages caps the gallery size of one product.
const MaxProductImages = 4

// Product is a catalog entry. Image is the primary picture shown in listings;
// Images is the full gallery in upload order.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	Images      []string  `json:"images"`
	Colors      []string  `json:"colors"`
	Sizes       []string  `json:"sizes"`
	InStock     bool      `json:"inStock"`
	IsFeatured  bool      `json:"isFeatured"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductFilter narrows a catalog listing. Empty Category means every category.
type ProductFilter struct {
	Category     string
	FeaturedOnly bool
}

// ProductInput is a create or update request after boundary decoding. Nil
// pointers and absent list fields mean "not sent".
//
// Invalid collects scalar fields that were sent but could not be decoded
// (e.g. price "abc"). Create rejects them; update leaves those fields untouched.
type ProductInput struct {
	Name        *string
	Price       *float64
	Description *string
	Category    *string
	Image       *string
	Images      ListField
	Colors      ListField
	Sizes       ListField
	InStock     *bool
	IsFeatured  *bool

	Invalid []FieldError
}

// FieldError names an input field that failed to decode.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// ParseFlag reads a form checkbox or string boolean: "true", "1" and "on"
// (any case) are true, everything else is false.
func ParseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "on":
		return true
	default:
		return false
	}
}
