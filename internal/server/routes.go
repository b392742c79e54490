package server

import (
	"net/http"
	"time"

	"github.com/bobmcallan/satchel/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Auth
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/password", s.handleAuthPassword)

	// Users
	mux.HandleFunc("/api/users/me", s.handleUserMe)
	mux.HandleFunc("/api/users/", s.routeUsers)
	mux.HandleFunc("/api/users", s.handleUserList)

	// Catalog
	mux.HandleFunc("/api/products/", s.routeProducts)
	mux.HandleFunc("/api/products", s.handleProducts)
	mux.HandleFunc("/api/promotions/", s.routePromotions)
	mux.HandleFunc("/api/promotions", s.handlePromotions)

	// Cart and wishlist
	mux.HandleFunc("/api/cart/items/", s.handleCartItem)
	mux.HandleFunc("/api/cart/items", s.handleCartAdd)
	mux.HandleFunc("/api/cart", s.handleCart)
	mux.HandleFunc("/api/wishlist/", s.handleWishlistItem)
	mux.HandleFunc("/api/wishlist", s.handleWishlist)

	// Orders
	mux.HandleFunc("/api/orders/all", s.handleOrderListAll)
	mux.HandleFunc("/api/orders/", s.routeOrders)
	mux.HandleFunc("/api/orders", s.handleOrders)

	// Reports
	mux.HandleFunc("/api/reports/products", s.handleReportProducts)
	mux.HandleFunc("/api/reports/creators", s.handleReportCreators)

	// Files
	mux.HandleFunc("/api/files/", s.handleFileUpload)
	mux.HandleFunc("/files/", s.handleFileServe)
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"uptime":  time.Since(s.app.StartupTime).String(),
		"version": common.GetVersion(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
