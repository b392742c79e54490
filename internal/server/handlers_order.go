package server

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/models"
)

// --- Order handlers ---

// handleOrders handles GET /api/orders (own orders) and POST /api/orders
// (checkout).
func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	caller := common.CallerFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		orders, err := s.app.OrderService.ListMine(r.Context(), caller)
		if err != nil {
			WriteFault(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, orders)

	case http.MethodPost:
		var req struct {
			ShippingAddress string `json:"shipping_address"`
			PaymentMethod   string `json:"payment_method"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		order, err := s.app.OrderService.CreateOrder(r.Context(), caller, req.ShippingAddress, req.PaymentMethod)
		if err != nil {
			WriteFault(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, order)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleOrderListAll handles GET /api/orders/all (staff only).
func (s *Server) handleOrderListAll(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	caller := common.CallerFromContext(r.Context())
	orders, err := s.app.OrderService.ListAll(r.Context(), caller)
	if err != nil {
		WriteFault(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, orders)
}

// routeOrders dispatches /api/orders/{id}, /api/orders/{id}/status, and
// /api/orders/{id}/rating.
func (s *Server) routeOrders(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/status"):
		s.handleOrderStatus(w, r)
	case strings.HasSuffix(r.URL.Path, "/rating"):
		s.handleOrderRating(w, r)
	default:
		s.handleOrderGet(w, r)
	}
}

func (s *Server) handleOrderGet(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	orderID := PathParam(r, "/api/orders/", "")
	caller := common.CallerFromContext(r.Context())
	order, err := s.app.OrderService.Get(r.Context(), caller, orderID)
	if err != nil {
		WriteFault(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, order)
}

// handleOrderStatus handles PUT /api/orders/{id}/status.
func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	orderID := PathParam(r, "/api/orders/", "/status")
	var req struct {
		Status string `json:"status"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	next, ok := models.ParseOrderStatus(req.Status)
	if !ok {
		WriteError(w, http.StatusBadRequest, "unknown order status '"+req.Status+"'")
		return
	}

	caller := common.CallerFromContext(r.Context())
	order, err := s.app.OrderService.AdvanceStatus(r.Context(), caller, orderID, next)
	if err != nil {
		WriteFault(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, order)
}

// handleOrderRating handles POST /api/orders/{id}/rating.
func (s *Server) handleOrderRating(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	orderID := PathParam(r, "/api/orders/", "/rating")
	var req struct {
		Rating int    `json:"rating"`
		Review string `json:"review"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	caller := common.CallerFromContext(r.Context())
	order, err := s.app.OrderService.AttachRating(r.Context(), caller, orderID, req.Rating, req.Review)
	if err != nil {
		WriteFault(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, order)
}
