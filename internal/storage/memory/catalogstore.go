package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bobmcallan/satchel/internal/interfaces"
	"github.com/bobmcallan/satchel/internal/models"
)

// CatalogStore holds products and promotions. The single mutex makes
// DecrementStock a true conditional update: no two checkouts can both
// observe the same unit of stock.
type CatalogStore struct {
	mu       sync.RWMutex
	products map[string]models.Product
	promos   map[string]models.Promotion
}

func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		products: make(map[string]models.Product),
		promos:   make(map[string]models.Promotion),
	}
}

func (s *CatalogStore) GetProduct(_ context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, models.NewNotFound("product", id)
	}
	return cloneProduct(product), nil
}

func (s *CatalogStore) SaveProduct(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[product.ID] = *cloneProduct(*product)
	return nil
}

func (s *CatalogStore) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return models.NewNotFound("product", id)
	}
	delete(s.products, id)
	return nil
}

func (s *CatalogStore) ListProducts(_ context.Context, creatorID string) ([]*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Product, 0, len(s.products))
	for _, product := range s.products {
		if creatorID != "" && product.CreatorID != creatorID {
			continue
		}
		result = append(result, cloneProduct(product))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *CatalogStore) DecrementStock(_ context.Context, id string, qty int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return 0, models.NewNotFound("product", id)
	}
	if product.Stock < qty {
		return 0, models.NewInsufficientStock(id, product.Stock)
	}
	product.Stock -= qty
	s.products[id] = product
	return product.Stock, nil
}

func (s *CatalogStore) IncrementStock(_ context.Context, id string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return models.NewNotFound("product", id)
	}
	product.Stock += qty
	s.products[id] = product
	return nil
}

func (s *CatalogStore) AppendRating(_ context.Context, productID string, rating models.ProductRating) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[productID]
	if !ok {
		return models.NewNotFound("product", productID)
	}
	product.Ratings = append(append([]models.ProductRating(nil), product.Ratings...), rating)
	s.products[productID] = product
	return nil
}

func (s *CatalogStore) GetPromotion(_ context.Context, id string) (*models.Promotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	promo, ok := s.promos[id]
	if !ok {
		return nil, models.NewNotFound("promotion", id)
	}
	p := promo
	return &p, nil
}

func (s *CatalogStore) SavePromotion(_ context.Context, promo *models.Promotion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.promos[promo.ID] = *promo
	return nil
}

func (s *CatalogStore) DeletePromotion(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.promos[id]; !ok {
		return models.NewNotFound("promotion", id)
	}
	delete(s.promos, id)
	return nil
}

func (s *CatalogStore) ListPromotions(_ context.Context, category string) ([]*models.Promotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Promotion, 0, len(s.promos))
	for _, promo := range s.promos {
		if category != "" && promo.Category != category && promo.Category != models.PromotionAllCategories {
			continue
		}
		p := promo
		result = append(result, &p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func cloneProduct(p models.Product) *models.Product {
	c := p
	if p.Ratings != nil {
		c.Ratings = append([]models.ProductRating(nil), p.Ratings...)
	}
	return &c
}

var _ interfaces.CatalogStore = (*CatalogStore)(nil)
