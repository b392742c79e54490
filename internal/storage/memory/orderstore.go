package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bobmcallan/satchel/internal/interfaces"
	"github.com/bobmcallan/satchel/internal/models"
)

// OrderStore persists order snapshots. UpdateStatus compares the stored
// status under the lock, so the swap is atomic per record.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]models.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[string]models.Order)}
}

func (s *OrderStore) Create(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return models.NewValidation("order '%s' already exists", order.ID)
	}
	s.orders[order.ID] = *cloneOrder(*order)
	return nil
}

func (s *OrderStore) Get(_ context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, models.NewNotFound("order", id)
	}
	return cloneOrder(order), nil
}

func (s *OrderStore) UpdateStatus(_ context.Context, id string, from, to models.OrderStatus, rating int, review string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return models.NewNotFound("order", id)
	}
	if order.Status != from {
		return models.NewIllegalTransition(order.Status, to)
	}
	order.Status = to
	if rating > 0 {
		order.Rating = rating
		order.Review = review
	}
	s.orders[id] = order
	return nil
}

func (s *OrderStore) ListByUser(_ context.Context, userID string) ([]*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Order, 0)
	for _, order := range s.orders {
		if order.UserID != userID {
			continue
		}
		result = append(result, cloneOrder(order))
	}
	sortOrders(result)
	return result, nil
}

func (s *OrderStore) ListAll(_ context.Context) ([]*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Order, 0, len(s.orders))
	for _, order := range s.orders {
		result = append(result, cloneOrder(order))
	}
	sortOrders(result)
	return result, nil
}

func (s *OrderStore) ListCreatedBetween(_ context.Context, from, to time.Time) ([]*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Order, 0)
	for _, order := range s.orders {
		if order.CreatedAt.Before(from) || !order.CreatedAt.Before(to) {
			continue
		}
		result = append(result, cloneOrder(order))
	}
	sortOrders(result)
	return result, nil
}

// sortOrders orders newest first, id as tie-break for stable output.
func sortOrders(orders []*models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
}

func cloneOrder(o models.Order) *models.Order {
	c := o
	c.Items = o.CloneItems()
	return &c
}

var _ interfaces.OrderStore = (*OrderStore)(nil)
