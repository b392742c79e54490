package models

// ProductSales aggregates quantity sold per product over a date range.
// Consumed read-only by the reporting/export layer.
type ProductSales struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// CreatorSales aggregates quantity sold per product creator over a
// date range.
type CreatorSales struct {
	CreatorID string `json:"creator_id"`
	Quantity  int    `json:"quantity"`
}
