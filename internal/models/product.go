package models

import (
	"strings"
	"time"
)

// ProductRating is one customer rating attached to a product. Ratings
// arrive via the order-completion fan-out, never directly.
type ProductRating struct {
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is a catalog record. Stock is mutated only through the
// conditional-update operations on the catalog store.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       float64         `json:"price"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	Weight      float64         `json:"weight,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	CreatorID   string          `json:"creator_id"`
	Ratings     []ProductRating `json:"ratings,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Validate checks field constraints before any write.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return NewValidation("product name is required")
	}
	if p.Price <= 0 {
		return NewValidation("product price must be greater than zero")
	}
	if strings.TrimSpace(p.Category) == "" {
		return NewValidation("product category is required")
	}
	if p.Stock < 0 {
		return NewValidation("product stock must not be negative")
	}
	if p.Weight < 0 {
		return NewValidation("product weight must not be negative")
	}
	return nil
}

// AverageRating computes the mean rating for display. The average is
// derived by the reader, never stored denormalized.
func (p *Product) AverageRating() float64 {
	if len(p.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range p.Ratings {
		sum += r.Rating
	}
	return float64(sum) / float64(len(p.Ratings))
}
