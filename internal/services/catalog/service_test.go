package catalog

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
	adminCaller    = &common.Caller{UserID: "adm1", Role: models.RoleAdmin, Level: models.LevelAdmin}
	managerCaller  = &common.Caller{UserID: "mgr1", Role: models.RoleManager, Level: models.LevelManager}
	customerCaller = &common.Caller{UserID: "cust1", Role: models.RoleCustomer, Level: models.LevelUser}
)

func newTestService(t *testing.T) (*Service, *memory.Manager) {
	t.Helper()

	logger := common.NewSilentLogger()
	storage := memory.NewManager(logger)
	return NewService(storage, auth.NewGate(), logger), storage
}

func newProduct(name string, price float64, stock int) *models.Product {
	return &models.Product{
		Name:     name,
		Price:    price,
		Category: "Elektronik",
		Stock:    stock,
	}
}

func TestCreateProductRequiresManagerOrAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, customerCaller, newProduct("Kipas", 150000, 5))
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultDenied))

	created, err := svc.CreateProduct(ctx, managerCaller, newProduct("Kipas", 150000, 5))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "mgr1", created.CreatorID)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateProduct(context.Background(), adminCaller, newProduct("", 100, 1))
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultValidation))

	_, err = svc.CreateProduct(context.Background(), adminCaller, newProduct("Kipas", 0, 1))
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultValidation))
}

func TestUpdateProductOwnership(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, managerCaller, newProduct("Kipas", 150000, 5))
	require.NoError(t, err)

	otherManager := &common.Caller{UserID: "mgr2", Role: models.RoleManager}
	edit := *created
	edit.Name = "Kipas Angin"
	_, err = svc.UpdateProduct(ctx, otherManager, &edit)
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultDenied))

	// Admin can edit anyone's listing; stock and creator survive.
	edit.Stock = 999
	updated, err := svc.UpdateProduct(ctx, adminCaller, &edit)
	require.NoError(t, err)
	assert.Equal(t, "Kipas Angin", updated.Name)
	assert.Equal(t, "mgr1", updated.CreatorID)
	assert.Equal(t, 5, updated.Stock)
}

func TestAdjustStock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, managerCaller, newProduct("Kipas", 150000, 5))
	require.NoError(t, err)

	after, err := svc.AdjustStock(ctx, managerCaller, created.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 8, after.Stock)

	after, err = svc.AdjustStock(ctx, managerCaller, created.ID, -8)
	require.NoError(t, err)
	assert.Equal(t, 0, after.Stock)

	// A correction below zero is rejected by the same guard as checkout.
	_, err = svc.AdjustStock(ctx, managerCaller, created.ID, -1)
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultInsufficientStock))

	_, err = svc.AdjustStock(ctx, managerCaller, created.ID, 0)
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultValidation))
}

func TestPromotionRequiresAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	promo := &models.Promotion{
		Title:              "Gajian Sale",
		Category:           "Elektronik",
		StartDate:          time.Now().Add(-time.Hour),
		EndDate:            time.Now().Add(time.Hour),
		DiscountPercentage: 10,
	}

	_, err := svc.CreatePromotion(ctx, managerCaller, promo)
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultDenied))

	created, err := svc.CreatePromotion(ctx, adminCaller, promo)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestResolveEffectivePricePicksGreatestDiscount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now()

	product, err := svc.CreateProduct(ctx, adminCaller, newProduct("Kipas", 100000, 5))
	require.NoError(t, err)

	mk := func(id, category string, discount float64, created time.Time) {
		require.NoError(t, svc.storage.Catalog().SavePromotion(ctx, &models.Promotion{
			ID:                 id,
			Title:              id,
			Category:           category,
			StartDate:          now.Add(-time.Hour),
			EndDate:            now.Add(time.Hour),
			DiscountPercentage: discount,
			CreatedAt:          created,
		}))
	}
	mk("p-small", "Elektronik", 5, now)
	mk("p-big", models.PromotionAllCategories, 20, now.Add(-time.Minute))
	mk("p-other", "Fashion", 50, now)

	price, promo, err := svc.ResolveEffectivePrice(ctx, product, now)
	require.NoError(t, err)
	require.NotNil(t, promo)
	assert.Equal(t, "p-big", promo.ID)
	assert.InDelta(t, 80000, price, 0.001)
}

func TestResolveEffectivePriceTieBreaksOnNewest(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now()

	product, err := svc.CreateProduct(ctx, adminCaller, newProduct("Kipas", 100000, 5))
	require.NoError(t, err)

	older := &models.Promotion{
		ID: "p-older", Title: "older", Category: "Elektronik",
		StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour),
		DiscountPercentage: 15, CreatedAt: now.Add(-time.Hour),
	}
	newer := &models.Promotion{
		ID: "p-newer", Title: "newer", Category: "Elektronik",
		StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour),
		DiscountPercentage: 15, CreatedAt: now,
	}
	require.NoError(t, svc.storage.Catalog().SavePromotion(ctx, older))
	require.NoError(t, svc.storage.Catalog().SavePromotion(ctx, newer))

	_, promo, err := svc.ResolveEffectivePrice(ctx, product, now)
	require.NoError(t, err)
	require.NotNil(t, promo)
	assert.Equal(t, "p-newer", promo.ID)
}

func TestResolveEffectivePriceIgnoresExpired(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now()

	product, err := svc.CreateProduct(ctx, adminCaller, newProduct("Kipas", 100000, 5))
	require.NoError(t, err)

	require.NoError(t, svc.storage.Catalog().SavePromotion(ctx, &models.Promotion{
		ID: "p-expired", Title: "expired", Category: "Elektronik",
		StartDate: now.Add(-2 * time.Hour), EndDate: now.Add(-time.Hour),
		DiscountPercentage: 50, CreatedAt: now,
	}))

	price, promo, err := svc.ResolveEffectivePrice(ctx, product, now)
	require.NoError(t, err)
	assert.Nil(t, promo)
	assert.Equal(t, 100000.0, price)
}
