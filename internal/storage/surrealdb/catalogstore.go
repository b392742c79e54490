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

// productSelectFields lists the fields to select from product, aliasing product_id to id for struct mapping.
const productSelectFields = `product_id as id, name, price, description, category, stock,
	weight, image_url, creator_id, ratings, created_at, updated_at`

// promotionSelectFields lists the fields to select from promotion, aliasing promotion_id to id.
const promotionSelectFields = `promotion_id as id, title, description, category,
	start_date, end_date, discount_percentage, created_at`

// CatalogStore implements interfaces.CatalogStore using SurrealDB. Stock
// arithmetic rides on conditional UPDATE statements so each mutation is a
// single atomic record write on the server.
type CatalogStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewCatalogStore creates a new CatalogStore.
func NewCatalogStore(db *surrealdb.DB, logger *common.Logger) *CatalogStore {
	return &CatalogStore{db: db, logger: logger}
}

func (s *CatalogStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	sql := "SELECT " + productSelectFields + " FROM $rid"
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID("product", id),
	}

	results, err := surrealdb.Query[[]models.Product](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, models.NewNotFound("product", id)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, models.NewNotFound("product", id)
	}
	return &(*results)[0].Result[0], nil
}

func (s *CatalogStore) SaveProduct(ctx context.Context, product *models.Product) error {
	sql := `UPSERT $rid SET
		product_id = $product_id, name = $name, price = $price,
		description = $description, category = $category, stock = $stock,
		weight = $weight, image_url = $image_url, creator_id = $creator_id,
		ratings = $ratings, created_at = $created_at, updated_at = $updated_at`
	ratings := product.Ratings
	if ratings == nil {
		ratings = []models.ProductRating{}
	}
	vars := map[string]any{
		"rid":         surrealmodels.NewRecordID("product", product.ID),
		"product_id":  product.ID,
		"name":        product.Name,
		"price":       product.Price,
		"description": product.Description,
		"category":    product.Category,
		"stock":       product.Stock,
		"weight":      product.Weight,
		"image_url":   product.ImageURL,
		"creator_id":  product.CreatorID,
		"ratings":     ratings,
		"created_at":  product.CreatedAt,
		"updated_at":  product.UpdatedAt,
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

func (s *CatalogStore) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	if _, err := surrealdb.Delete[models.Product](ctx, s.db, surrealmodels.NewRecordID("product", id)); err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (s *CatalogStore) ListProducts(ctx context.Context, creatorID string) ([]*models.Product, error) {
	sql := "SELECT " + productSelectFields + " FROM product"
	vars := map[string]any{}
	if creatorID != "" {
		sql += " WHERE creator_id = $creator_id"
		vars["creator_id"] = creatorID
	}
	sql += " ORDER BY product_id ASC"

	results, err := surrealdb.Query[[]models.Product](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]*models.Product, 0)
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			products = append(products, &(*results)[0].Result[i])
		}
	}
	return products, nil
}

// stockRow carries just the field the conditional updates return.
type stockRow struct {
	Stock int `json:"stock"`
}

func (s *CatalogStore) DecrementStock(ctx context.Context, id string, qty int) (int, error) {
	// The WHERE guard and the subtraction execute as one record write,
	// so two concurrent checkouts can never both take the last unit.
	sql := "UPDATE $rid SET stock -= $qty WHERE stock >= $qty RETURN AFTER"
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID("product", id),
		"qty": qty,
	}

	results, err := surrealdb.Query[[]stockRow](ctx, s.db, sql, vars)
	if err != nil {
		return 0, fmt.Errorf("failed to decrement stock: %w", err)
	}
	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return (*results)[0].Result[0].Stock, nil
	}

	// The guard rejected the write: either the product is gone or the
	// stock is short. Re-read to tell the two apart.
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return 0, err
	}
	return 0, models.NewInsufficientStock(id, product.Stock)
}

func (s *CatalogStore) IncrementStock(ctx context.Context, id string, qty int) error {
	sql := "UPDATE $rid SET stock += $qty RETURN AFTER"
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID("product", id),
		"qty": qty,
	}

	results, err := surrealdb.Query[[]stockRow](ctx, s.db, sql, vars)
	if err != nil {
		return fmt.Errorf("failed to increment stock: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return models.NewNotFound("product", id)
	}
	return nil
}

func (s *CatalogStore) AppendRating(ctx context.Context, productID string, rating models.ProductRating) error {
	sql := "UPDATE $rid SET ratings += $rating RETURN AFTER"
	vars := map[string]any{
		"rid":    surrealmodels.NewRecordID("product", productID),
		"rating": rating,
	}

	results, err := surrealdb.Query[[]stockRow](ctx, s.db, sql, vars)
	if err != nil {
		return fmt.Errorf("failed to append rating: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return models.NewNotFound("product", productID)
	}
	return nil
}

func (s *CatalogStore) GetPromotion(ctx context.Context, id string) (*models.Promotion, error) {
	sql := "SELECT " + promotionSelectFields + " FROM $rid"
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID("promotion", id),
	}

	results, err := surrealdb.Query[[]models.Promotion](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, models.NewNotFound("promotion", id)
		}
		return nil, fmt.Errorf("failed to get promotion: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, models.NewNotFound("promotion", id)
	}
	return &(*results)[0].Result[0], nil
}

func (s *CatalogStore) SavePromotion(ctx context.Context, promo *models.Promotion) error {
	sql := `UPSERT $rid SET
		promotion_id = $promotion_id, title = $title, description = $description,
		category = $category, start_date = $start_date, end_date = $end_date,
		discount_percentage = $discount_percentage, created_at = $created_at`
	vars := map[string]any{
		"rid":                 surrealmodels.NewRecordID("promotion", promo.ID),
		"promotion_id":        promo.ID,
		"title":               promo.Title,
		"description":         promo.Description,
		"category":            promo.Category,
		"start_date":          promo.StartDate,
		"end_date":            promo.EndDate,
		"discount_percentage": promo.DiscountPercentage,
		"created_at":          promo.CreatedAt,
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save promotion: %w", err)
	}
	return nil
}

func (s *CatalogStore) DeletePromotion(ctx context.Context, id string) error {
	if _, err := s.GetPromotion(ctx, id); err != nil {
		return err
	}
	if _, err := surrealdb.Delete[models.Promotion](ctx, s.db, surrealmodels.NewRecordID("promotion", id)); err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete promotion: %w", err)
	}
	return nil
}

func (s *CatalogStore) ListPromotions(ctx context.Context, category string) ([]*models.Promotion, error) {
	sql := "SELECT " + promotionSelectFields + " FROM promotion"
	vars := map[string]any{}
	if category != "" {
		sql += " WHERE category = $category OR category = $all"
		vars["category"] = category
		vars["all"] = models.PromotionAllCategories
	}
	sql += " ORDER BY promotion_id ASC"

	results, err := surrealdb.Query[[]models.Promotion](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}

	promos := make([]*models.Promotion, 0)
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			promos = append(promos, &(*results)[0].Result[i])
		}
	}
	return promos, nil
}

// Compile-time check
var _ interfaces.CatalogStore = (*CatalogStore)(nil)
