package models

import (
	"strings"
	"time"
)

// OrderStatus describes the order delivery lifecycle.
type OrderStatus string

const (
	// OrderStatusPending: order created, stock already decremented.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusPacked: staff packed the order for dispatch.
	OrderStatusPacked OrderStatus = "packed"
	// OrderStatusShipped: order handed to the courier.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered: customer confirmed receipt.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCompleted: terminal; reached only by attaching a rating.
	OrderStatusCompleted OrderStatus = "completed"
	// OrderStatusCancelled: terminal; stock is restored on entry.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus canonicalizes a status string.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case OrderStatusPending, OrderStatusPacked, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled:
		return st, true
	}
	return "", false
}

// IsTerminal reports whether no transition leaves the status.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// TransitionRule records who may drive one edge of the status graph.
type TransitionRule struct {
	// Staff permits manager, supervisor, and admin callers.
	Staff bool
	// Owner permits the order's own customer.
	Owner bool
	// RatingOnly restricts the edge to the rating attachment path;
	// AdvanceStatus rejects it outright.
	RatingOnly bool
}

// transitionRules is the complete status graph. Any (from, to) pair
// absent from this table is an illegal transition.
var transitionRules = map[OrderStatus]map[OrderStatus]TransitionRule{
	OrderStatusPending: {
		OrderStatusPacked:    {Staff: true},
		OrderStatusCancelled: {Staff: true, Owner: true},
	},
	OrderStatusPacked: {
		OrderStatusShipped:   {Staff: true},
		OrderStatusCancelled: {Staff: true},
	},
	OrderStatusShipped: {
		OrderStatusDelivered: {Owner: true},
		OrderStatusCancelled: {Staff: true},
	},
	OrderStatusDelivered: {
		OrderStatusCompleted: {Owner: true, RatingOnly: true},
	},
}

// TransitionRuleFor looks up the rule for one edge. ok is false when the
// edge does not exist in the graph.
func TransitionRuleFor(from, to OrderStatus) (TransitionRule, bool) {
	rule, ok := transitionRules[from][to]
	return rule, ok
}

// OrderItem is a frozen snapshot of one product line taken at order
// creation. It is never re-read from the catalog.
type OrderItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL string  `json:"image_url,omitempty"`
}

// Order is an immutable purchase record. After creation only the status
// and the one-time rating attachment may change.
type Order struct {
	ID              string               `json:"id"`
	UserID          string               `json:"user_id"`
	Status          OrderStatus          `json:"status"`
	Items           map[string]OrderItem `json:"items"`
	TotalPrice      float64              `json:"total_price"`
	ShippingAddress string               `json:"shipping_address"`
	PaymentMethod   string               `json:"payment_method"`
	CreatedAt       time.Time            `json:"created_at"`
	Rating          int                  `json:"rating,omitempty"`
	Review          string               `json:"review,omitempty"`
}

// ItemsTotal recomputes the snapshot sum. It must equal TotalPrice for
// every persisted order.
func (o *Order) ItemsTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// CloneItems returns a defensive copy of the snapshot map.
func (o *Order) CloneItems() map[string]OrderItem {
	items := make(map[string]OrderItem, len(o.Items))
	for id, item := range o.Items {
		items[id] = item
	}
	return items
}
