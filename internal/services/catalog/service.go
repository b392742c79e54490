// Package catalog manages products, promotions, and effective pricing.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/satchel/internal/auth"
	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/interfaces"
	"github.com/bobmcallan/satchel/internal/models"
)

// Service implements interfaces.CatalogService.
type Service struct {
	storage interfaces.StorageManager
	gate    *auth.Gate
	logger  *common.Logger
}

// NewService creates a new catalog service.
func NewService(storage interfaces.StorageManager, gate *auth.Gate, logger *common.Logger) *Service {
	return &Service{storage: storage, gate: gate, logger: logger}
}

func (s *Service) CreateProduct(ctx context.Context, caller *common.Caller, product *models.Product) (*models.Product, error) {
	if d := s.gate.Check(caller, auth.ActionWriteProduct, ""); !d.Allowed {
		return nil, d.Fault()
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if product.ID == "" {
		product.ID = fmt.Sprintf("prd_%s", uuid.New().String()[:8])
	}
	product.CreatorID = caller.UserID
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.storage.Catalog().SaveProduct(ctx, product); err != nil {
		return nil, models.EnsureFault(err)
	}

	s.logger.Info().Str("product_id", product.ID).Str("creator_id", product.CreatorID).Msg("Product created")
	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, caller *common.Caller, product *models.Product) (*models.Product, error) {
	if d := s.gate.Check(caller, auth.ActionWriteProduct, ""); !d.Allowed {
		return nil, d.Fault()
	}

	existing, err := s.storage.Catalog().GetProduct(ctx, product.ID)
	if err != nil {
		return nil, models.EnsureFault(err)
	}
	// Managers edit only their own listings; admins edit any.
	if caller.Role != models.RoleAdmin && existing.CreatorID != caller.UserID {
		return nil, models.NewDenied("may only edit own products")
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	// Creator, ratings, and stock survive the edit; stock changes go
	// through AdjustStock so they stay conditional.
	product.CreatorID = existing.CreatorID
	product.Ratings = existing.Ratings
	product.Stock = existing.Stock
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()

	if err := s.storage.Catalog().SaveProduct(ctx, product); err != nil {
		return nil, models.EnsureFault(err)
	}
	return product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, caller *common.Caller, id string) error {
	if d := s.gate.Check(caller, auth.ActionWriteProduct, ""); !d.Allowed {
		return d.Fault()
	}

	existing, err := s.storage.Catalog().GetProduct(ctx, id)
	if err != nil {
		return models.EnsureFault(err)
	}
	if caller.Role != models.RoleAdmin && existing.CreatorID != caller.UserID {
		return models.NewDenied("may only delete own products")
	}

	if err := s.storage.Catalog().DeleteProduct(ctx, id); err != nil {
		return models.EnsureFault(err)
	}

	s.logger.Info().Str("product_id", id).Msg("Product deleted")
	return nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.storage.Catalog().GetProduct(ctx, id)
	if err != nil {
		return nil, models.EnsureFault(err)
	}
	return product, nil
}

func (s *Service) ListProducts(ctx context.Context, creatorID string) ([]*models.Product, error) {
	products, err := s.storage.Catalog().ListProducts(ctx, creatorID)
	if err != nil {
		return nil, models.EnsureFault(err)
	}
	return products, nil
}

func (s *Service) AdjustStock(ctx context.Context, caller *common.Caller, productID string, delta int) (*models.Product, error) {
	if d := s.gate.Check(caller, auth.ActionWriteProduct, ""); !d.Allowed {
		return nil, d.Fault()
	}
	if delta == 0 {
		return nil, models.NewValidation("stock delta must not be zero")
	}

	if delta > 0 {
		if err := s.storage.Catalog().IncrementStock(ctx, productID, delta); err != nil {
			return nil, models.EnsureFault(err)
		}
	} else {
		// Negative corrections use the same guarded decrement as
		// checkout, so a correction can never push stock below zero.
		if _, err := s.storage.Catalog().DecrementStock(ctx, productID, -delta); err != nil {
			return nil, models.EnsureFault(err)
		}
	}

	product, err := s.storage.Catalog().GetProduct(ctx, productID)
	if err != nil {
		return nil, models.EnsureFault(err)
	}

	s.logger.Info().Str("product_id", productID).Int("delta", delta).Int("stock", product.Stock).Msg("Stock adjusted")
	return product, nil
}

func (s *Service) CreatePromotion(ctx context.Context, caller *common.Caller, promo *models.Promotion) (*models.Promotion, error) {
	if d := s.gate.Check(caller, auth.ActionWritePromotion, ""); !d.Allowed {
		return nil, d.Fault()
	}
	if err := promo.Validate(); err != nil {
		return nil, err
	}

	if promo.ID == "" {
		promo.ID = fmt.Sprintf("pro_%s", uuid.New().String()[:8])
	}
	promo.CreatedAt = time.Now()

	if err := s.storage.Catalog().SavePromotion(ctx, promo); err != nil {
		return nil, models.EnsureFault(err)
	}

	s.logger.Info().Str("promotion_id", promo.ID).Str("category", promo.Category).Msg("Promotion created")
	return promo, nil
}

func (s *Service) DeletePromotion(ctx context.Context, caller *common.Caller, id string) error {
	if d := s.gate.Check(caller, auth.ActionWritePromotion, ""); !d.Allowed {
		return d.Fault()
	}
	if err := s.storage.Catalog().DeletePromotion(ctx, id); err != nil {
		return models.EnsureFault(err)
	}
	return nil
}

func (s *Service) ListPromotions(ctx context.Context, category string) ([]*models.Promotion, error) {
	promos, err := s.storage.Catalog().ListPromotions(ctx, category)
	if err != nil {
		return nil, models.EnsureFault(err)
	}
	return promos, nil
}

func (s *Service) ResolveEffectivePrice(ctx context.Context, product *models.Product, at time.Time) (float64, *models.Promotion, error) {
	promos, err := s.storage.Catalog().ListPromotions(ctx, product.Category)
	if err != nil {
		return 0, nil, models.EnsureFault(err)
	}

	best := pickBestPromotion(promos, product.Category, at)
	if best == nil {
		return product.Price, nil, nil
	}
	price := product.Price * (1 - best.DiscountPercentage/100)
	return price, best, nil
}

// pickBestPromotion selects among active promotions: greatest discount
// wins, most recently created breaks ties, lowest id settles the rest.
func pickBestPromotion(promos []*models.Promotion, category string, at time.Time) *models.Promotion {
	var best *models.Promotion
	for _, p := range promos {
		if !p.AppliesTo(category, at) {
			continue
		}
		if best == nil || betterPromotion(p, best) {
			best = p
		}
	}
	return best
}

func betterPromotion(a, b *models.Promotion) bool {
	if a.DiscountPercentage != b.DiscountPercentage {
		return a.DiscountPercentage > b.DiscountPercentage
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

// Compile-time check
var _ interfaces.CatalogService = (*Service)(nil)
