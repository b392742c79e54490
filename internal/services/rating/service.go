// Package rating fans an order rating out onto the rated products.
package rating

import (
	"context"
	"sort"
	"time"

	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/interfaces"
	"github.com/bobmcallan/satchel/internal/models"
)

// Service implements interfaces.RatingService.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new rating service.
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{storage: storage, logger: logger}
}

// Propagate appends the rating to every distinct product in the order
// snapshot. Each append is independent; one failure never stops the
// rest, and the failed product ids are returned for the caller to log.
func (s *Service) Propagate(ctx context.Context, order *models.Order, rating int, review string) []string {
	entry := models.ProductRating{
		UserID:    order.UserID,
		Rating:    rating,
		Review:    review,
		CreatedAt: time.Now(),
	}

	productIDs := make([]string, 0, len(order.Items))
	for id := range order.Items {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	var failed []string
	for _, id := range productIDs {
		if err := s.storage.Catalog().AppendRating(ctx, id, entry); err != nil {
			s.logger.Warn().Err(err).Str("product_id", id).Str("order_id", order.ID).Msg("Failed to append product rating")
			failed = append(failed, id)
		}
	}
	return failed
}

// Compile-time check
var _ interfaces.RatingService = (*Service)(nil)
