package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/satchel/internal/app"
	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/models"
	"github.com/bobmcallan/satchel/internal/storage/memory"
)

// newTestServer creates a test server backed by memory storage with the
// full middleware stack applied.
func newTestServer(t *testing.T) (*Server, *app.App) {
	t.Helper()

	logger := common.NewSilentLogger()
	cfg := common.NewDefaultConfig()
	cfg.Storage.Driver = "memory"
	cfg.Auth.JWTSecret = "test-secret"

	a, err := app.NewAppWithDeps(cfg, logger, memory.NewManager(logger))
	require.NoError(t, err)
	return NewServer(a), a
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(data)
}

// seedAccount stores a profile plus credential and returns a login token.
func seedAccount(t *testing.T, srv *Server, a *app.App, id string, role models.Role) string {
	t.Helper()

	ctx := t.Context()
	require.NoError(t, a.Storage.Users().Save(ctx, &models.User{
		ID:        id,
		Username:  "user-" + id,
		Email:     id + "@example.com",
		Role:      role,
		Level:     models.LevelUser,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}))
	caller := &common.Caller{UserID: id, Role: role}
	require.NoError(t, a.IdentityService.SetPassword(ctx, caller, id, "hunter2hunter2"))

	rec := do(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": id + "@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func do(t *testing.T, srv *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, jsonBody(t, body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func seedProductDirect(t *testing.T, a *app.App, id string, price float64, stock int) {
	t.Helper()

	require.NoError(t, a.Storage.Catalog().SaveProduct(t.Context(), &models.Product{
		ID:        id,
		Name:      "Produk " + id,
		Price:     price,
		Category:  "Elektronik",
		Stock:     stock,
		CreatorID: "mgr1",
	}))
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestLoginAndMe(t *testing.T) {
	srv, a := newTestServer(t)
	token := seedAccount(t, srv, a, "cust1", models.RoleCustomer)

	rec := do(t, srv, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "cust1", user.ID)
}

func TestInvalidTokenRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/users/me", "bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestAnonymousCartDenied(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProductCreateForbiddenForCustomer(t *testing.T) {
	srv, a := newTestServer(t)
	token := seedAccount(t, srv, a, "cust1", models.RoleCustomer)

	rec := do(t, srv, http.MethodPost, "/api/products", token, map[string]interface{}{
		"name": "Kipas", "price": 150000, "category": "Elektronik", "stock": 5,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"denied"`)
}

func TestProductLifecycleOverHTTP(t *testing.T) {
	srv, a := newTestServer(t)
	token := seedAccount(t, srv, a, "mgr1", models.RoleManager)

	rec := do(t, srv, http.MethodPost, "/api/products", token, map[string]interface{}{
		"name": "Kipas", "price": 150000, "category": "Elektronik", "stock": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rec = do(t, srv, http.MethodGet, "/api/products/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		models.Product
		EffectivePrice float64 `json:"effective_price"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 150000.0, view.EffectivePrice)

	rec = do(t, srv, http.MethodPost, "/api/products/"+created.ID+"/stock", token, map[string]int{"delta": -5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/api/products/"+created.ID+"/stock", token, map[string]int{"delta": -1})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"insufficient_stock"`)
}

func TestCheckoutFlowOverHTTP(t *testing.T) {
	srv, a := newTestServer(t)
	custToken := seedAccount(t, srv, a, "cust1", models.RoleCustomer)
	staffToken := seedAccount(t, srv, a, "mgr1", models.RoleManager)
	seedProductDirect(t, a, "prd1", 100000, 5)

	rec := do(t, srv, http.MethodPost, "/api/cart/items", custToken, map[string]interface{}{
		"product_id": "prd1", "quantity": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/api/orders", custToken, map[string]string{
		"shipping_address": "Jl. Merdeka 1", "payment_method": "transfer",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, models.OrderStatusPending, order.Status)

	// Skipping a state is a conflict.
	rec = do(t, srv, http.MethodPut, fmt.Sprintf("/api/orders/%s/status", order.ID), staffToken, map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"illegal_transition"`)

	for _, step := range []struct {
		token  string
		status string
	}{
		{staffToken, "packed"},
		{staffToken, "shipped"},
		{custToken, "delivered"},
	} {
		rec = do(t, srv, http.MethodPut, fmt.Sprintf("/api/orders/%s/status", order.ID), step.token, map[string]string{"status": step.status})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodPost, fmt.Sprintf("/api/orders/%s/rating", order.ID), custToken, map[string]interface{}{
		"rating": 5, "review": "mantap",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rated models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rated))
	assert.Equal(t, models.OrderStatusCompleted, rated.Status)
	assert.Equal(t, 5, rated.Rating)
}

func TestOrderListAllRequiresStaff(t *testing.T) {
	srv, a := newTestServer(t)
	custToken := seedAccount(t, srv, a, "cust1", models.RoleCustomer)
	staffToken := seedAccount(t, srv, a, "spv1", models.RoleSupervisor)

	rec := do(t, srv, http.MethodGet, "/api/orders/all", custToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/orders/all", staffToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownStatusRejected(t *testing.T) {
	srv, a := newTestServer(t)
	token := seedAccount(t, srv, a, "mgr1", models.RoleManager)

	rec := do(t, srv, http.MethodPut, "/api/orders/ord_x/status", token, map[string]string{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFileUploadAndServe(t *testing.T) {
	srv, a := newTestServer(t)
	token := seedAccount(t, srv, a, "cust1", models.RoleCustomer)

	req := httptest.NewRequest(http.MethodPost, "/api/files/avatars/cust1.png", bytes.NewBufferString("pngdata"))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "image/png")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "/files/avatars/cust1.png")

	rec2 := do(t, srv, http.MethodGet, "/files/avatars/cust1.png", "", nil)
	require.Equal(t, http.StatusOK, rec2.Code)
	assert.Equal(t, "image/png", rec2.Header().Get("Content-Type"))
	assert.Equal(t, "pngdata", rec2.Body.String())
}

func TestReportEndpointsRequireStaff(t *testing.T) {
	srv, a := newTestServer(t)
	custToken := seedAccount(t, srv, a, "cust1", models.RoleCustomer)
	staffToken := seedAccount(t, srv, a, "spv1", models.RoleSupervisor)

	rec := do(t, srv, http.MethodGet, "/api/reports/products", custToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/reports/products", staffToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
