// Package cart manages the caller's cart and wishlist. A cart line is
// never a stock reservation; availability is checked only at checkout.
package cart

import (
	"context"
	"time"

	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/interfaces"
	"github.com/bobmcallan/satchel/internal/models"
)

// Service implements interfaces.CartService.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new cart service.
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{storage: storage, logger: logger}
}

func requireCaller(caller *common.Caller) error {
	if caller == nil || caller.UserID == "" {
		return models.NewDenied("not authenticated")
	}
	return nil
}

func (s *Service) AddItem(ctx context.Context, caller *common.Caller, productID string, qty int) (*models.CartItem, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if qty <= 0 {
		return nil, models.NewValidation("quantity must be greater than zero")
	}

	if _, err := s.storage.Catalog().GetProduct(ctx, productID); err != nil {
		return nil, models.EnsureFault(err)
	}

	// Adding an item that is already in the cart replaces the line; the
	// quantity is set, never accumulated.
	item := &models.CartItem{
		UserID:    caller.UserID,
		ProductID: productID,
		Quantity:  qty,
		AddedAt:   time.Now(),
	}
	if existing, err := s.storage.Carts().Get(ctx, caller.UserID, productID); err == nil {
		item.AddedAt = existing.AddedAt
	}

	if err := s.storage.Carts().Put(ctx, item); err != nil {
		return nil, models.EnsureFault(err)
	}
	return item, nil
}

func (s *Service) SetQuantity(ctx context.Context, caller *common.Caller, productID string, qty int) (*models.CartItem, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if qty < 0 {
		return nil, models.NewValidation("quantity must not be negative")
	}

	existing, err := s.storage.Carts().Get(ctx, caller.UserID, productID)
	if err != nil {
		return nil, models.EnsureFault(err)
	}

	// Quantity zero removes the line; a zero-quantity row is never stored.
	if qty == 0 {
		if err := s.storage.Carts().Delete(ctx, caller.UserID, productID); err != nil {
			return nil, models.EnsureFault(err)
		}
		return nil, nil
	}

	existing.Quantity = qty
	if err := s.storage.Carts().Put(ctx, existing); err != nil {
		return nil, models.EnsureFault(err)
	}
	return existing, nil
}

func (s *Service) List(ctx context.Context, caller *common.Caller) ([]*models.CartItem, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	items, err := s.storage.Carts().List(ctx, caller.UserID)
	if err != nil {
		return nil, models.EnsureFault(err)
	}
	return items, nil
}

func (s *Service) Clear(ctx context.Context, caller *common.Caller) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	if err := s.storage.Carts().Clear(ctx, caller.UserID); err != nil {
		return models.EnsureFault(err)
	}
	return nil
}

func (s *Service) AddWishlistItem(ctx context.Context, caller *common.Caller, productID string) (*models.WishlistItem, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	if _, err := s.storage.Catalog().GetProduct(ctx, productID); err != nil {
		return nil, models.EnsureFault(err)
	}

	item := &models.WishlistItem{
		UserID:    caller.UserID,
		ProductID: productID,
		AddedAt:   time.Now(),
	}
	if err := s.storage.Carts().PutWishlist(ctx, item); err != nil {
		return nil, models.EnsureFault(err)
	}
	return item, nil
}

func (s *Service) RemoveWishlistItem(ctx context.Context, caller *common.Caller, productID string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	if err := s.storage.Carts().DeleteWishlist(ctx, caller.UserID, productID); err != nil {
		return models.EnsureFault(err)
	}
	return nil
}

func (s *Service) ListWishlist(ctx context.Context, caller *common.Caller) ([]*models.WishlistItem, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	items, err := s.storage.Carts().ListWishlist(ctx, caller.UserID)
	if err != nil {
		return nil, models.EnsureFault(err)
	}
	return items, nil
}

// Compile-time check
var _ interfaces.CartService = (*Service)(nil)
