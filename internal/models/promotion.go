package models

import (
	"strings"
	"time"
)

// PromotionAllCategories marks a promotion that applies storewide.
const PromotionAllCategories = "All"

// Promotion is an admin-managed discount window over a category.
type Promotion struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	Category           string    `json:"category"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	DiscountPercentage float64   `json:"discount_percentage"`
	CreatedAt          time.Time `json:"created_at"`
}

// Validate checks field constraints before any write.
func (p *Promotion) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return NewValidation("promotion title is required")
	}
	if strings.TrimSpace(p.Category) == "" {
		return NewValidation("promotion category is required")
	}
	if p.EndDate.Before(p.StartDate) {
		return NewValidation("promotion end date must not precede start date")
	}
	if p.DiscountPercentage < 0 || p.DiscountPercentage > 100 {
		return NewValidation("discount percentage must be within [0,100]")
	}
	return nil
}

// AppliesTo reports whether the promotion covers the given product
// category at the given instant.
func (p *Promotion) AppliesTo(category string, at time.Time) bool {
	if p.Category != PromotionAllCategories && p.Category != category {
		return false
	}
	return !at.Before(p.StartDate) && !at.After(p.EndDate)
}
