// Package order converts carts into immutable orders and drives the
// delivery status state machine.
package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/satchel/internal/auth"
	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/interfaces"
	"github.com/bobmcallan/satchel/internal/models"
)

// Service implements interfaces.OrderService.
type Service struct {
	storage interfaces.StorageManager
	catalog interfaces.CatalogService
	ratings interfaces.RatingService
	gate    *auth.Gate
	logger  *common.Logger
}

// NewService creates a new order service.
func NewService(storage interfaces.StorageManager, catalog interfaces.CatalogService, ratings interfaces.RatingService, gate *auth.Gate, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		catalog: catalog,
		ratings: ratings,
		gate:    gate,
		logger:  logger,
	}
}

// decremented records one applied stock decrement so a failed checkout
// can put the units back.
type decremented struct {
	productID string
	qty       int
}

func (s *Service) CreateOrder(ctx context.Context, caller *common.Caller, shippingAddress, paymentMethod string) (*models.Order, error) {
	if caller == nil || caller.UserID == "" {
		return nil, models.NewDenied("not authenticated")
	}
	if shippingAddress == "" {
		return nil, models.NewValidation("shipping address is required")
	}
	if paymentMethod == "" {
		return nil, models.NewValidation("payment method is required")
	}

	lines, err := s.storage.Carts().List(ctx, caller.UserID)
	if err != nil {
		return nil, models.EnsureFault(err)
	}
	if len(lines) == 0 {
		return nil, models.NewValidation("cart is empty")
	}

	// Snapshot every line before touching stock. Prices are frozen at
	// the effective (promotion-adjusted) price of this instant.
	now := time.Now()
	items := make(map[string]models.OrderItem, len(lines))
	var total float64
	for _, line := range lines {
		product, err := s.storage.Catalog().GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, models.EnsureFault(err)
		}
		price, _, err := s.catalog.ResolveEffectivePrice(ctx, product, now)
		if err != nil {
			return nil, models.EnsureFault(err)
		}
		items[product.ID] = models.OrderItem{
			Name:     product.Name,
			Price:    price,
			Quantity: line.Quantity,
			ImageURL: product.ImageURL,
		}
		total += price * float64(line.Quantity)
	}

	// Decrement stock line by line through the conditional update. A
	// failure part-way rolls the earlier decrements back.
	applied := make([]decremented, 0, len(lines))
	for _, line := range lines {
		if _, err := s.storage.Catalog().DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			if compErr := s.compensate(ctx, applied); compErr != nil {
				return nil, models.NewInconsistent("stock rollback", compErr)
			}
			return nil, models.EnsureFault(err)
		}
		applied = append(applied, decremented{productID: line.ProductID, qty: line.Quantity})
	}

	order := &models.Order{
		ID:              fmt.Sprintf("ord_%s", uuid.New().String()[:8]),
		UserID:          caller.UserID,
		Status:          models.OrderStatusPending,
		Items:           items,
		TotalPrice:      total,
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
		CreatedAt:       now,
	}
	if err := s.storage.Orders().Create(ctx, order); err != nil {
		if compErr := s.compensate(ctx, applied); compErr != nil {
			return nil, models.NewInconsistent("order persist", compErr)
		}
		return nil, models.EnsureFault(err)
	}

	// The order is committed; an unclean cart is only a nuisance.
	if err := s.storage.Carts().Clear(ctx, caller.UserID); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("Failed to clear cart after checkout")
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Str("user_id", caller.UserID).
		Float64("total", total).
		Int("lines", len(items)).
		Msg("Order created")
	return order, nil
}

// compensate puts back every decrement applied so far. The first
// increment that fails aborts and reports: at that point stock really is
// in a partial state and the caller must hear about it.
func (s *Service) compensate(ctx context.Context, applied []decremented) error {
	for _, d := range applied {
		if err := s.storage.Catalog().IncrementStock(ctx, d.productID, d.qty); err != nil {
			s.logger.Error().Err(err).Str("product_id", d.productID).Int("qty", d.qty).Msg("Stock compensation failed")
			return err
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, caller *common.Caller, orderID string) (*models.Order, error) {
	if caller == nil || caller.UserID == "" {
		return nil, models.NewDenied("not authenticated")
	}

	order, err := s.storage.Orders().Get(ctx, orderID)
	if err != nil {
		return nil, models.EnsureFault(err)
	}
	if order.UserID != caller.UserID {
		if d := s.gate.Check(caller, auth.ActionModerateOrder, order.UserID); !d.Allowed {
			return nil, d.Fault()
		}
	}
	return order, nil
}

func (s *Service) ListMine(ctx context.Context, caller *common.Caller) ([]*models.Order, error) {
	if caller == nil || caller.UserID == "" {
		return nil, models.NewDenied("not authenticated")
	}

	orders, err := s.storage.Orders().ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, models.EnsureFault(err)
	}
	return orders, nil
}

func (s *Service) ListAll(ctx context.Context, caller *common.Caller) ([]*models.Order, error) {
	if d := s.gate.Check(caller, auth.ActionModerateOrder, ""); !d.Allowed {
		return nil, d.Fault()
	}

	orders, err := s.storage.Orders().ListAll(ctx)
	if err != nil {
		return nil, models.EnsureFault(err)
	}
	return orders, nil
}

func (s *Service) AdvanceStatus(ctx context.Context, caller *common.Caller, orderID string, next models.OrderStatus) (*models.Order, error) {
	if caller == nil || caller.UserID == "" {
		return nil, models.NewDenied("not authenticated")
	}

	order, err := s.storage.Orders().Get(ctx, orderID)
	if err != nil {
		return nil, models.EnsureFault(err)
	}

	rule, ok := models.TransitionRuleFor(order.Status, next)
	if !ok || rule.RatingOnly {
		// The completed edge exists only on the rating path; through
		// this entry point it is as illegal as any absent edge.
		return nil, models.NewIllegalTransition(order.Status, next)
	}
	if err := s.authorizeTransition(caller, order, rule); err != nil {
		return nil, err
	}

	// Conditional swap: if another actor moved the order since the read
	// above, the guard rejects and reports the fresher status.
	if err := s.storage.Orders().UpdateStatus(ctx, orderID, order.Status, next, 0, ""); err != nil {
		return nil, models.EnsureFault(err)
	}

	if next == models.OrderStatusCancelled {
		if err := s.restock(ctx, order); err != nil {
			return nil, models.NewInconsistent("cancel restock", err)
		}
	}

	order.Status = next
	s.logger.Info().
		Str("order_id", orderID).
		Str("status", string(next)).
		Str("actor", caller.UserID).
		Msg("Order status advanced")
	return order, nil
}

// authorizeTransition checks the caller against the edge rule: staff
// edges via the moderation gate, owner edges via identity match.
func (s *Service) authorizeTransition(caller *common.Caller, order *models.Order, rule models.TransitionRule) error {
	if rule.Staff {
		if d := s.gate.Check(caller, auth.ActionModerateOrder, order.UserID); d.Allowed {
			return nil
		}
	}
	if rule.Owner && caller.UserID == order.UserID {
		return nil
	}
	return models.NewDenied(fmt.Sprintf("role '%s' may not drive this transition", caller.Role))
}

// restock puts every snapshot quantity back on cancellation.
func (s *Service) restock(ctx context.Context, order *models.Order) error {
	for productID, item := range order.Items {
		if err := s.storage.Catalog().IncrementStock(ctx, productID, item.Quantity); err != nil {
			// A product deleted since purchase has nothing to restock.
			if models.IsFault(err, models.FaultNotFound) {
				s.logger.Warn().Str("product_id", productID).Msg("Skipping restock of deleted product")
				continue
			}
			return err
		}
	}
	return nil
}

func (s *Service) AttachRating(ctx context.Context, caller *common.Caller, orderID string, rating int, review string) (*models.Order, error) {
	if caller == nil || caller.UserID == "" {
		return nil, models.NewDenied("not authenticated")
	}
	if rating < 1 || rating > 5 {
		return nil, models.NewValidation("rating must be within [1,5]")
	}
	if strings.TrimSpace(review) == "" {
		return nil, models.NewValidation("review is required")
	}

	order, err := s.storage.Orders().Get(ctx, orderID)
	if err != nil {
		return nil, models.EnsureFault(err)
	}
	if order.UserID != caller.UserID {
		return nil, models.NewDenied("only the order owner may rate it")
	}
	// The status gate also covers the already-rated case: a rated order
	// has left delivered for completed.
	if order.Status != models.OrderStatusDelivered {
		return nil, models.NewIllegalTransition(order.Status, models.OrderStatusCompleted)
	}

	// Rating and the delivered -> completed move land in one conditional
	// write; a concurrent duplicate attempt loses the swap.
	if err := s.storage.Orders().UpdateStatus(ctx, orderID, models.OrderStatusDelivered, models.OrderStatusCompleted, rating, review); err != nil {
		return nil, models.EnsureFault(err)
	}

	order.Status = models.OrderStatusCompleted
	order.Rating = rating
	order.Review = review

	// Fan-out is best-effort: the order-level rating has committed and
	// is never rolled back over a product write failure.
	if failed := s.ratings.Propagate(ctx, order, rating, review); len(failed) > 0 {
		s.logger.Warn().
			Str("order_id", orderID).
			Strs("product_ids", failed).
			Msg("Rating fan-out incomplete")
	}

	s.logger.Info().Str("order_id", orderID).Int("rating", rating).Msg("Order rated and completed")
	return order, nil
}

// Compile-time check
var _ interfaces.OrderService = (*Service)(nil)
