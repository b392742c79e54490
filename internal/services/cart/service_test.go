package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/models"
	"github.com/bobmcallan/satchel/internal/storage/memory"
)

var buyer = &common.Caller{UserID: "cust1", Role: models.RoleCustomer, Level: models.LevelUser}

func newTestService(t *testing.T) (*Service, *memory.Manager) {
	t.Helper()

	logger := common.NewSilentLogger()
	storage := memory.NewManager(logger)
	return NewService(storage, logger), storage
}

func seedProduct(t *testing.T, storage *memory.Manager, id string, stock int) {
	t.Helper()

	require.NoError(t, storage.Catalog().SaveProduct(context.Background(), &models.Product{
		ID:       id,
		Name:     "Produk " + id,
		Price:    10000,
		Category: "Elektronik",
		Stock:    stock,
	}))
}

func TestAddItemReplacesQuantity(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()
	seedProduct(t, storage, "prd1", 10)

	_, err := svc.AddItem(ctx, buyer, "prd1", 2)
	require.NoError(t, err)

	// Adding the same product again sets the quantity, it does not add up.
	item, err := svc.AddItem(ctx, buyer, "prd1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	items, err := svc.List(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddItem(context.Background(), buyer, "ghost", 1)
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultNotFound))
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	svc, storage := newTestService(t)
	seedProduct(t, storage, "prd1", 10)

	_, err := svc.AddItem(context.Background(), buyer, "prd1", 0)
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultValidation))
}

func TestAddItemDoesNotReserveStock(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()
	seedProduct(t, storage, "prd1", 3)

	// Carting more than available is fine; stock is checked at checkout.
	item, err := svc.AddItem(ctx, buyer, "prd1", 50)
	require.NoError(t, err)
	assert.Equal(t, 50, item.Quantity)

	product, err := storage.Catalog().GetProduct(ctx, "prd1")
	require.NoError(t, err)
	assert.Equal(t, 3, product.Stock)
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()
	seedProduct(t, storage, "prd1", 10)

	_, err := svc.AddItem(ctx, buyer, "prd1", 2)
	require.NoError(t, err)

	item, err := svc.SetQuantity(ctx, buyer, "prd1", 0)
	require.NoError(t, err)
	assert.Nil(t, item)

	items, err := svc.List(ctx, buyer)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSetQuantityMissingLine(t *testing.T) {
	svc, storage := newTestService(t)
	seedProduct(t, storage, "prd1", 10)

	_, err := svc.SetQuantity(context.Background(), buyer, "prd1", 2)
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultNotFound))
}

func TestCartsAreScopedPerUser(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()
	seedProduct(t, storage, "prd1", 10)

	other := &common.Caller{UserID: "cust2", Role: models.RoleCustomer}
	_, err := svc.AddItem(ctx, buyer, "prd1", 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, other, "prd1", 7)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, buyer))

	mine, err := svc.List(ctx, buyer)
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := svc.List(ctx, other)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, 7, theirs[0].Quantity)
}

func TestWishlistRoundTrip(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()
	seedProduct(t, storage, "prd1", 10)

	_, err := svc.AddWishlistItem(ctx, buyer, "prd1")
	require.NoError(t, err)
	// Idempotent: a second add keeps one row.
	_, err = svc.AddWishlistItem(ctx, buyer, "prd1")
	require.NoError(t, err)

	items, err := svc.ListWishlist(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, svc.RemoveWishlistItem(ctx, buyer, "prd1"))
	items, err = svc.ListWishlist(ctx, buyer)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAnonymousCallerDenied(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.List(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultDenied))
}
