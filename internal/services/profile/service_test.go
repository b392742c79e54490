package profile

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
	admin      = &common.Caller{UserID: "adm1", Role: models.RoleAdmin, Level: models.LevelAdmin}
	supervisor = &common.Caller{UserID: "spv1", Role: models.RoleSupervisor, Level: models.LevelSupervisor}
	customer   = &common.Caller{UserID: "cust1", Role: models.RoleCustomer, Level: models.LevelUser}
)

func newTestService(t *testing.T) (*Service, *memory.Manager) {
	t.Helper()

	logger := common.NewSilentLogger()
	storage := memory.NewManager(logger)
	return NewService(storage, auth.NewGate(), logger), storage
}

func seedUser(t *testing.T, storage *memory.Manager, id string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		ID:        id,
		Username:  "user-" + id,
		Email:     id + "@example.com",
		Role:      role,
		Level:     models.LevelUser,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, storage.Users().Save(context.Background(), user))
	return user
}

func TestEnsureExistsProvisionsOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.EnsureExists(ctx, "u1", "budi@example.com")
	require.NoError(t, err)
	assert.Equal(t, "budi", first.Username)
	assert.Equal(t, models.RoleCustomer, first.Role)

	// Second sighting is a no-op, not a reset.
	first.Address = "Jl. Merdeka 1"
	_, err = svc.Save(ctx, &common.Caller{UserID: "u1", Role: models.RoleCustomer}, first)
	require.NoError(t, err)

	again, err := svc.EnsureExists(ctx, "u1", "budi@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Jl. Merdeka 1", again.Address)
}

func TestSaveOwnProfileCannotEscalate(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()
	seedUser(t, storage, "cust1", models.RoleCustomer)

	me, err := svc.Get(ctx, "cust1")
	require.NoError(t, err)
	me.Role = models.RoleAdmin
	_, err = svc.Save(ctx, customer, me)
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultDenied))
}

func TestSaveOtherProfileRequiresAdmin(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()
	target := seedUser(t, storage, "u2", models.RoleCustomer)

	target.Address = "Jl. Baru 5"
	_, err := svc.Save(ctx, customer, target)
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultDenied))

	saved, err := svc.Save(ctx, admin, target)
	require.NoError(t, err)
	assert.Equal(t, "Jl. Baru 5", saved.Address)
}

func TestSaveValidatesHobbies(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()
	seedUser(t, storage, "cust1", models.RoleCustomer)

	me, err := svc.Get(ctx, "cust1")
	require.NoError(t, err)
	me.Hobbies = []models.Hobby{
		{ImageURL: "a", Title: "a", Description: "a"},
		{ImageURL: "b", Title: "b", Description: "b"},
		{ImageURL: "c", Title: "c", Description: "c"},
		{ImageURL: "d", Title: "d", Description: "d"},
	}
	_, err = svc.Save(ctx, customer, me)
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultValidation))

	me.Hobbies = me.Hobbies[:3]
	_, err = svc.Save(ctx, customer, me)
	require.NoError(t, err)
}

func TestSetRoleNormalizesLegacyLabel(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()
	seedUser(t, storage, "u2", models.RoleCustomer)

	updated, err := svc.SetRole(ctx, admin, "u2", models.Role("pimpinan"), models.LevelSupervisor)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSupervisor, updated.Role)
	assert.Equal(t, models.LevelSupervisor, updated.Level)
}

func TestSetRoleRequiresAdmin(t *testing.T) {
	svc, storage := newTestService(t)
	seedUser(t, storage, "u2", models.RoleCustomer)

	_, err := svc.SetRole(context.Background(), supervisor, "u2", models.RoleManager, models.LevelManager)
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultDenied))
}

func TestListVisibility(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()
	seedUser(t, storage, "u1", models.RoleCustomer)
	seedUser(t, storage, "u2", models.RoleManager)

	_, err := svc.List(ctx, customer, "")
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultDenied))

	all, err := svc.List(ctx, supervisor, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	managers, err := svc.List(ctx, supervisor, models.RoleManager)
	require.NoError(t, err)
	require.Len(t, managers, 1)
	assert.Equal(t, "u2", managers[0].ID)
}

func TestDeleteRules(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()
	seedUser(t, storage, "u2", models.RoleCustomer)
	seedUser(t, storage, "adm1", models.RoleAdmin)

	err := svc.Delete(ctx, customer, "u2")
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultDenied))

	// Admins cannot delete themselves.
	err = svc.Delete(ctx, admin, "adm1")
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultDenied))

	require.NoError(t, svc.Delete(ctx, admin, "u2"))
	_, err = svc.Get(ctx, "u2")
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultNotFound))
}
