package models

import "time"

// CartItem is one line in a user's cart, keyed by (UserID, ProductID).
// A quantity of zero is expressed by deleting the row, never by storing it.
type CartItem struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// WishlistItem is one product a user has bookmarked.
type WishlistItem struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`
}
