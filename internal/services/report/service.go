// Package report exposes read-only sales aggregations.
package report

import (
	"context"
	"sort"
	"time"

	"github.com/bobmcallan/satchel/internal/auth"
	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/interfaces"
	"github.com/bobmcallan/satchel/internal/models"
)

// Service implements interfaces.ReportService. Aggregations exclude
// cancelled orders; every other status counts as a sale.
type Service struct {
	storage interfaces.StorageManager
	gate    *auth.Gate
	logger  *common.Logger
}

// NewService creates a new report service.
func NewService(storage interfaces.StorageManager, gate *auth.Gate, logger *common.Logger) *Service {
	return &Service{storage: storage, gate: gate, logger: logger}
}

func (s *Service) SumQuantityByProduct(ctx context.Context, caller *common.Caller, from, to time.Time) ([]models.ProductSales, error) {
	orders, err := s.soldOrders(ctx, caller, from, to)
	if err != nil {
		return nil, err
	}

	quantities := make(map[string]int)
	names := make(map[string]string)
	for _, order := range orders {
		for productID, item := range order.Items {
			quantities[productID] += item.Quantity
			names[productID] = item.Name
		}
	}

	sales := make([]models.ProductSales, 0, len(quantities))
	for productID, qty := range quantities {
		sales = append(sales, models.ProductSales{
			ProductID: productID,
			Name:      names[productID],
			Quantity:  qty,
		})
	}
	sort.Slice(sales, func(i, j int) bool {
		if sales[i].Quantity != sales[j].Quantity {
			return sales[i].Quantity > sales[j].Quantity
		}
		return sales[i].ProductID < sales[j].ProductID
	})
	return sales, nil
}

func (s *Service) SumQuantityByCreator(ctx context.Context, caller *common.Caller, from, to time.Time) ([]models.CreatorSales, error) {
	orders, err := s.soldOrders(ctx, caller, from, to)
	if err != nil {
		return nil, err
	}

	quantities := make(map[string]int)
	for _, order := range orders {
		for productID, item := range order.Items {
			creatorID, err := s.creatorOf(ctx, productID)
			if err != nil {
				// A product deleted since purchase has no creator left
				// to credit; its units fall out of this view.
				if models.IsFault(err, models.FaultNotFound) {
					continue
				}
				return nil, models.EnsureFault(err)
			}
			quantities[creatorID] += item.Quantity
		}
	}

	sales := make([]models.CreatorSales, 0, len(quantities))
	for creatorID, qty := range quantities {
		sales = append(sales, models.CreatorSales{CreatorID: creatorID, Quantity: qty})
	}
	sort.Slice(sales, func(i, j int) bool {
		if sales[i].Quantity != sales[j].Quantity {
			return sales[i].Quantity > sales[j].Quantity
		}
		return sales[i].CreatorID < sales[j].CreatorID
	})
	return sales, nil
}

func (s *Service) soldOrders(ctx context.Context, caller *common.Caller, from, to time.Time) ([]*models.Order, error) {
	if d := s.gate.Check(caller, auth.ActionModerateOrder, ""); !d.Allowed {
		return nil, d.Fault()
	}
	if to.Before(from) {
		return nil, models.NewValidation("report range end must not precede start")
	}

	orders, err := s.storage.Orders().ListCreatedBetween(ctx, from, to)
	if err != nil {
		return nil, models.EnsureFault(err)
	}

	sold := orders[:0]
	for _, order := range orders {
		if order.Status == models.OrderStatusCancelled {
			continue
		}
		sold = append(sold, order)
	}
	return sold, nil
}

func (s *Service) creatorOf(ctx context.Context, productID string) (string, error) {
	product, err := s.storage.Catalog().GetProduct(ctx, productID)
	if err != nil {
		return "", err
	}
	return product.CreatorID, nil
}

// Compile-time check
var _ interfaces.ReportService = (*Service)(nil)
