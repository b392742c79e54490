package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/satchel/internal/auth"
	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/models"
	"github.com/bobmcallan/satchel/internal/storage/memory"
)

var (
	staff    = &common.Caller{UserID: "spv1", Role: models.RoleSupervisor, Level: models.LevelSupervisor}
	customer = &common.Caller{UserID: "cust1", Role: models.RoleCustomer, Level: models.LevelUser}
)

func newTestService(t *testing.T) (*Service, *memory.Manager) {
	t.Helper()

	logger := common.NewSilentLogger()
	storage := memory.NewManager(logger)
	return NewService(storage, auth.NewGate(), logger), storage
}

func seedOrder(t *testing.T, storage *memory.Manager, id string, status models.OrderStatus, createdAt time.Time, items map[string]models.OrderItem) {
	t.Helper()

	order := &models.Order{
		ID:              id,
		UserID:          "cust1",
		Status:          status,
		Items:           items,
		ShippingAddress: "Jl. Merdeka 1",
		PaymentMethod:   "transfer",
		CreatedAt:       createdAt,
	}
	for _, item := range items {
		order.TotalPrice += item.Price * float64(item.Quantity)
	}
	require.NoError(t, storage.Orders().Create(context.Background(), order))
}

func seedProduct(t *testing.T, storage *memory.Manager, id, creatorID string) {
	t.Helper()

	require.NoError(t, storage.Catalog().SaveProduct(context.Background(), &models.Product{
		ID:        id,
		Name:      "Produk " + id,
		Price:     10000,
		Category:  "Elektronik",
		Stock:     10,
		CreatorID: creatorID,
	}))
}

func TestSumQuantityByProduct(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()
	now := time.Now()

	seedOrder(t, storage, "o1", models.OrderStatusCompleted, now.Add(-48*time.Hour), map[string]models.OrderItem{
		"prd1": {Name: "Kipas", Price: 100, Quantity: 2},
	})
	seedOrder(t, storage, "o2", models.OrderStatusPending, now.Add(-time.Hour), map[string]models.OrderItem{
		"prd1": {Name: "Kipas", Price: 100, Quantity: 3},
		"prd2": {Name: "Lampu", Price: 50, Quantity: 1},
	})
	// Cancelled orders never count as sales.
	seedOrder(t, storage, "o3", models.OrderStatusCancelled, now.Add(-time.Hour), map[string]models.OrderItem{
		"prd1": {Name: "Kipas", Price: 100, Quantity: 9},
	})

	sales, err := svc.SumQuantityByProduct(ctx, staff, now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, models.ProductSales{ProductID: "prd1", Name: "Kipas", Quantity: 3}, sales[0])
	assert.Equal(t, models.ProductSales{ProductID: "prd2", Name: "Lampu", Quantity: 1}, sales[1])
}

func TestSumQuantityByCreator(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()
	now := time.Now()

	seedProduct(t, storage, "prd1", "mgr1")
	seedProduct(t, storage, "prd2", "mgr2")
	seedOrder(t, storage, "o1", models.OrderStatusShipped, now.Add(-time.Hour), map[string]models.OrderItem{
		"prd1": {Name: "Kipas", Price: 100, Quantity: 4},
		"prd2": {Name: "Lampu", Price: 50, Quantity: 1},
	})

	sales, err := svc.SumQuantityByCreator(ctx, staff, now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, models.CreatorSales{CreatorID: "mgr1", Quantity: 4}, sales[0])
	assert.Equal(t, models.CreatorSales{CreatorID: "mgr2", Quantity: 1}, sales[1])
}

func TestSumQuantityByCreatorSkipsDeletedProducts(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()
	now := time.Now()

	seedProduct(t, storage, "prd1", "mgr1")
	seedOrder(t, storage, "o1", models.OrderStatusShipped, now.Add(-time.Hour), map[string]models.OrderItem{
		"prd1":  {Name: "Kipas", Price: 100, Quantity: 4},
		"ghost": {Name: "Hilang", Price: 10, Quantity: 2},
	})

	sales, err := svc.SumQuantityByCreator(ctx, staff, now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "mgr1", sales[0].CreatorID)
}

func TestReportsRequireStaff(t *testing.T) {
	svc, _ := newTestService(t)
	now := time.Now()

	_, err := svc.SumQuantityByProduct(context.Background(), customer, now.Add(-time.Hour), now)
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultDenied))
}

func TestReportRejectsInvertedRange(t *testing.T) {
	svc, _ := newTestService(t)
	now := time.Now()

	_, err := svc.SumQuantityByProduct(context.Background(), staff, now, now.Add(-time.Hour))
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultValidation))
}
