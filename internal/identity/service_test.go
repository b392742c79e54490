package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/models"
	"github.com/bobmcallan/satchel/internal/storage/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Manager) {
	t.Helper()

	logger := common.NewSilentLogger()
	storage := memory.NewManager(logger)
	config := common.NewDefaultConfig()
	config.Auth.JWTSecret = "test-secret"
	config.Auth.TokenExpiry = "1h"
	return NewService(storage, logger, config), storage
}

func seedUser(t *testing.T, storage *memory.Manager, id, username, email, password string) *models.User {
	t.Helper()

	ctx := context.Background()
	user := &models.User{
		ID:        id,
		Username:  username,
		Email:     email,
		Role:      models.RoleCustomer,
		Level:     models.LevelUser,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, storage.Users().Save(ctx, user))

	if password != "" {
		svc := &Service{storage: storage, logger: common.NewSilentLogger()}
		caller := &common.Caller{UserID: id, Role: models.RoleCustomer}
		require.NoError(t, svc.SetPassword(ctx, caller, id, password))
	}
	return user
}

func TestLoginRoundTrip(t *testing.T) {
	svc, storage := newTestService(t)
	seedUser(t, storage, "u1", "budi", "budi@example.com", "hunter2hunter2")

	token, user, err := svc.Login(context.Background(), "budi@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.NotEmpty(t, token)

	caller, err := svc.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", caller.UserID)
	assert.Equal(t, "budi@example.com", caller.Email)
	assert.Equal(t, models.RoleCustomer, caller.Role)
}

func TestLoginByUsername(t *testing.T) {
	svc, storage := newTestService(t)
	seedUser(t, storage, "u1", "budi", "budi@example.com", "hunter2hunter2")

	_, user, err := svc.Login(context.Background(), "budi", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, storage := newTestService(t)
	seedUser(t, storage, "u1", "budi", "budi@example.com", "hunter2hunter2")

	_, _, err := svc.Login(context.Background(), "budi@example.com", "wrong-password")
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultDenied))
}

func TestLoginUnknownAccountLooksLikeBadPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever123")
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultDenied))
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc, storage := newTestService(t)
	seedUser(t, storage, "u1", "budi", "budi@example.com", "hunter2hunter2")

	token, _, err := svc.Login(context.Background(), "budi@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), token+"x")
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultDenied))
}

func TestVerifyRejectsTokenFromOtherSecret(t *testing.T) {
	svc, storage := newTestService(t)
	seedUser(t, storage, "u1", "budi", "budi@example.com", "hunter2hunter2")

	other := *svc
	other.secret = []byte("other-secret")
	user, err := storage.Users().Get(context.Background(), "u1")
	require.NoError(t, err)
	token, err := other.issueToken(user)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), token)
	require.Error(t, err)
}

func TestSetPasswordAuthorization(t *testing.T) {
	svc, storage := newTestService(t)
	seedUser(t, storage, "u1", "budi", "budi@example.com", "")
	seedUser(t, storage, "u2", "sari", "sari@example.com", "")

	ctx := context.Background()

	// A customer may only change their own password.
	other := &common.Caller{UserID: "u2", Role: models.RoleCustomer}
	err := svc.SetPassword(ctx, other, "u1", "longenough1")
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultDenied))

	// An admin may reset anyone's.
	admin := &common.Caller{UserID: "a1", Role: models.RoleAdmin}
	require.NoError(t, svc.SetPassword(ctx, admin, "u1", "longenough1"))

	_, _, err = svc.Login(ctx, "budi@example.com", "longenough1")
	require.NoError(t, err)
}

func TestSetPasswordTooShort(t *testing.T) {
	svc, storage := newTestService(t)
	seedUser(t, storage, "u1", "budi", "budi@example.com", "")

	caller := &common.Caller{UserID: "u1", Role: models.RoleCustomer}
	err := svc.SetPassword(context.Background(), caller, "u1", "short")
	require.Error(t, err)
	assert.True(t, models.IsFault(err, models.FaultValidation))
}
