package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/interfaces"
	"github.com/bobmcallan/satchel/internal/models"
)

const cartSelectFields = `user_id, product_id, quantity, added_at`

const wishlistSelectFields = `user_id, product_id, added_at`

// CartStore implements interfaces.CartStore using SurrealDB. Rows are
// keyed by a composite (user, product) record id so an upsert replaces
// rather than duplicates a line.
type CartStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewCartStore creates a new CartStore.
func NewCartStore(db *surrealdb.DB, logger *common.Logger) *CartStore {
	return &CartStore{db: db, logger: logger}
}

func (s *CartStore) Get(ctx context.Context, userID, productID string) (*models.CartItem, error) {
	sql := "SELECT " + cartSelectFields + " FROM $rid"
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID("cart_item", recordKey(userID, productID)),
	}

	results, err := surrealdb.Query[[]models.CartItem](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, models.NewNotFound("cart item", productID)
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, models.NewNotFound("cart item", productID)
	}
	return &(*results)[0].Result[0], nil
}

func (s *CartStore) Put(ctx context.Context, item *models.CartItem) error {
	sql := `UPSERT $rid SET
		user_id = $user_id, product_id = $product_id,
		quantity = $quantity, added_at = $added_at`
	vars := map[string]any{
		"rid":        surrealmodels.NewRecordID("cart_item", recordKey(item.UserID, item.ProductID)),
		"user_id":    item.UserID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
		"added_at":   item.AddedAt,
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save cart item: %w", err)
	}
	return nil
}

func (s *CartStore) Delete(ctx context.Context, userID, productID string) error {
	rid := surrealmodels.NewRecordID("cart_item", recordKey(userID, productID))
	if _, err := surrealdb.Delete[models.CartItem](ctx, s.db, rid); err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

func (s *CartStore) List(ctx context.Context, userID string) ([]*models.CartItem, error) {
	sql := "SELECT " + cartSelectFields + " FROM cart_item WHERE user_id = $user_id ORDER BY added_at ASC, product_id ASC"
	vars := map[string]any{
		"user_id": userID,
	}

	results, err := surrealdb.Query[[]models.CartItem](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}

	items := make([]*models.CartItem, 0)
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			items = append(items, &(*results)[0].Result[i])
		}
	}
	return items, nil
}

func (s *CartStore) Clear(ctx context.Context, userID string) error {
	sql := "DELETE cart_item WHERE user_id = $user_id"
	vars := map[string]any{
		"user_id": userID,
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *CartStore) PutWishlist(ctx context.Context, item *models.WishlistItem) error {
	sql := `UPSERT $rid SET
		user_id = $user_id, product_id = $product_id, added_at = $added_at`
	vars := map[string]any{
		"rid":        surrealmodels.NewRecordID("wishlist_item", recordKey(item.UserID, item.ProductID)),
		"user_id":    item.UserID,
		"product_id": item.ProductID,
		"added_at":   item.AddedAt,
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save wishlist item: %w", err)
	}
	return nil
}

func (s *CartStore) DeleteWishlist(ctx context.Context, userID, productID string) error {
	rid := surrealmodels.NewRecordID("wishlist_item", recordKey(userID, productID))
	if _, err := surrealdb.Delete[models.WishlistItem](ctx, s.db, rid); err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}
	return nil
}

func (s *CartStore) ListWishlist(ctx context.Context, userID string) ([]*models.WishlistItem, error) {
	sql := "SELECT " + wishlistSelectFields + " FROM wishlist_item WHERE user_id = $user_id ORDER BY added_at ASC, product_id ASC"
	vars := map[string]any{
		"user_id": userID,
	}

	results, err := surrealdb.Query[[]models.WishlistItem](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist items: %w", err)
	}

	items := make([]*models.WishlistItem, 0)
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			items = append(items, &(*results)[0].Result[i])
		}
	}
	return items, nil
}

// Compile-time check
var _ interfaces.CartStore = (*CartStore)(nil)
