package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/interfaces"
	"github.com/bobmcallan/satchel/internal/models"
)

// orderSelectFields lists the fields to select from orders, aliasing order_id to id for struct mapping.
// The table is named "orders" because ORDER is a SurrealQL keyword.
const orderSelectFields = `order_id as id, user_id, status, items, total_price,
	shipping_address, payment_method, created_at, rating, review`

// OrderStore implements interfaces.OrderStore using SurrealDB. Status
// swaps ride on a conditional UPDATE so concurrent moderators cannot
// both drive the same edge.
type OrderStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewOrderStore creates a new OrderStore.
func NewOrderStore(db *surrealdb.DB, logger *common.Logger) *OrderStore {
	return &OrderStore{db: db, logger: logger}
}

func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	// CREATE (not UPSERT) so a duplicate id is rejected instead of
	// silently overwriting an existing order.
	sql := `CREATE $rid SET
		order_id = $order_id, user_id = $user_id, status = $status,
		items = $items, total_price = $total_price,
		shipping_address = $shipping_address, payment_method = $payment_method,
		created_at = $created_at, rating = $rating, review = $review`
	vars := map[string]any{
		"rid":              surrealmodels.NewRecordID("orders", order.ID),
		"order_id":         order.ID,
		"user_id":          order.UserID,
		"status":           order.Status,
		"items":            order.Items,
		"total_price":      order.TotalPrice,
		"shipping_address": order.ShippingAddress,
		"payment_method":   order.PaymentMethod,
		"created_at":       order.CreatedAt,
		"rating":           order.Rating,
		"review":           order.Review,
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (s *OrderStore) Get(ctx context.Context, id string) (*models.Order, error) {
	sql := "SELECT " + orderSelectFields + " FROM $rid"
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID("orders", id),
	}

	results, err := surrealdb.Query[[]models.Order](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, models.NewNotFound("order", id)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, models.NewNotFound("order", id)
	}
	return &(*results)[0].Result[0], nil
}

// statusRow carries just the field the conditional swap returns.
type statusRow struct {
	Status models.OrderStatus `json:"status"`
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus, rating int, review string) error {
	// The WHERE guard and the assignment execute as one record write,
	// so the swap only lands while the stored status still equals from.
	sql := "UPDATE $rid SET status = $to WHERE status = $from RETURN AFTER"
	vars := map[string]any{
		"rid":  surrealmodels.NewRecordID("orders", id),
		"from": from,
		"to":   to,
	}
	if rating > 0 {
		sql = "UPDATE $rid SET status = $to, rating = $rating, review = $review WHERE status = $from RETURN AFTER"
		vars["rating"] = rating
		vars["review"] = review
	}

	results, err := surrealdb.Query[[]statusRow](ctx, s.db, sql, vars)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return nil
	}

	// The guard rejected the write: the order is gone or the stored
	// status moved on. Re-read to report which.
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return models.NewIllegalTransition(order.Status, to)
}

func (s *OrderStore) ListByUser(ctx context.Context, userID string) ([]*models.Order, error) {
	sql := "SELECT " + orderSelectFields + " FROM orders WHERE user_id = $user_id ORDER BY created_at DESC, order_id DESC"
	vars := map[string]any{
		"user_id": userID,
	}
	return s.queryOrders(ctx, sql, vars)
}

func (s *OrderStore) ListAll(ctx context.Context) ([]*models.Order, error) {
	sql := "SELECT " + orderSelectFields + " FROM orders ORDER BY created_at DESC, order_id DESC"
	return s.queryOrders(ctx, sql, nil)
}

func (s *OrderStore) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*models.Order, error) {
	sql := "SELECT " + orderSelectFields + " FROM orders WHERE created_at >= $from AND created_at < $to ORDER BY created_at DESC, order_id DESC"
	vars := map[string]any{
		"from": from,
		"to":   to,
	}
	return s.queryOrders(ctx, sql, vars)
}

func (s *OrderStore) queryOrders(ctx context.Context, sql string, vars map[string]any) ([]*models.Order, error) {
	results, err := surrealdb.Query[[]models.Order](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]*models.Order, 0)
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			orders = append(orders, &(*results)[0].Result[i])
		}
	}
	return orders, nil
}

// Compile-time check
var _ interfaces.OrderStore = (*OrderStore)(nil)
