package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bobmcallan/satchel/internal/interfaces"
	"github.com/bobmcallan/satchel/internal/models"
)

type cartKey struct {
	userID    string
	productID string
}

// CartStore holds cart and wishlist rows keyed by (userID, productID).
type CartStore struct {
	mu    sync.RWMutex
	items map[cartKey]models.CartItem
	saved map[cartKey]models.WishlistItem
}

func NewCartStore() *CartStore {
	return &CartStore{
		items: make(map[cartKey]models.CartItem),
		saved: make(map[cartKey]models.WishlistItem),
	}
}

func (s *CartStore) Get(_ context.Context, userID, productID string) (*models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[cartKey{userID, productID}]
	if !ok {
		return nil, models.NewNotFound("cart item", productID)
	}
	c := item
	return &c, nil
}

func (s *CartStore) Put(_ context.Context, item *models.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[cartKey{item.UserID, item.ProductID}] = *item
	return nil
}

func (s *CartStore) Delete(_ context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, cartKey{userID, productID})
	return nil
}

func (s *CartStore) List(_ context.Context, userID string) ([]*models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.CartItem, 0)
	for key, item := range s.items {
		if key.userID != userID {
			continue
		}
		c := item
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ProductID < result[j].ProductID })
	return result, nil
}

func (s *CartStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.items {
		if key.userID == userID {
			delete(s.items, key)
		}
	}
	return nil
}

func (s *CartStore) PutWishlist(_ context.Context, item *models.WishlistItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saved[cartKey{item.UserID, item.ProductID}] = *item
	return nil
}

func (s *CartStore) DeleteWishlist(_ context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.saved, cartKey{userID, productID})
	return nil
}

func (s *CartStore) ListWishlist(_ context.Context, userID string) ([]*models.WishlistItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.WishlistItem, 0)
	for key, item := range s.saved {
		if key.userID != userID {
			continue
		}
		w := item
		result = append(result, &w)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ProductID < result[j].ProductID })
	return result, nil
}

var _ interfaces.CartStore = (*CartStore)(nil)
