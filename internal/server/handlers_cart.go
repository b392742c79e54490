package server

import (
	"net/http"

	"github.com/bobmcallan/satchel/internal/common"
)

// --- Cart and wishlist handlers ---

// handleCart handles GET /api/cart and DELETE /api/cart.
func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	caller := common.CallerFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		items, err := s.app.CartService.List(r.Context(), caller)
		if err != nil {
			WriteFault(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, items)

	case http.MethodDelete:
		if err := s.app.CartService.Clear(r.Context(), caller); err != nil {
			WriteFault(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "cleared"})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}

// handleCartAdd handles POST /api/cart/items.
func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	caller := common.CallerFromContext(r.Context())
	item, err := s.app.CartService.AddItem(r.Context(), caller, req.ProductID, req.Quantity)
	if err != nil {
		WriteFault(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// handleCartItem handles PUT /api/cart/items/{productID}.
func (s *Server) handleCartItem(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	productID := PathParam(r, "/api/cart/items/", "")
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	caller := common.CallerFromContext(r.Context())
	item, err := s.app.CartService.SetQuantity(r.Context(), caller, productID, req.Quantity)
	if err != nil {
		WriteFault(w, err)
		return
	}
	if item == nil {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "removed"})
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// handleWishlist handles GET /api/wishlist and POST /api/wishlist.
func (s *Server) handleWishlist(w http.ResponseWriter, r *http.Request) {
	caller := common.CallerFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		items, err := s.app.CartService.ListWishlist(r.Context(), caller)
		if err != nil {
			WriteFault(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, items)

	case http.MethodPost:
		var req struct {
			ProductID string `json:"product_id"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		item, err := s.app.CartService.AddWishlistItem(r.Context(), caller, req.ProductID)
		if err != nil {
			WriteFault(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, item)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleWishlistItem handles DELETE /api/wishlist/{productID}.
func (s *Server) handleWishlistItem(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	productID := PathParam(r, "/api/wishlist/", "")
	caller := common.CallerFromContext(r.Context())
	if err := s.app.CartService.RemoveWishlistItem(r.Context(), caller, productID); err != nil {
		WriteFault(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
