package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/models"
)

// --- Catalog handlers ---

// productView decorates a product with its derived display fields.
type productView struct {
	*models.Product
	AverageRating  float64           `json:"average_rating"`
	EffectivePrice float64           `json:"effective_price"`
	Promotion      *models.Promotion `json:"promotion,omitempty"`
}

func (s *Server) productView(r *http.Request, product *models.Product) (*productView, error) {
	price, promo, err := s.app.CatalogService.ResolveEffectivePrice(r.Context(), product, time.Now())
	if err != nil {
		return nil, err
	}
	return &productView{
		Product:        product,
		AverageRating:  product.AverageRating(),
		EffectivePrice: price,
		Promotion:      promo,
	}, nil
}

// handleProducts handles GET /api/products?creator= and POST /api/products.
func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		products, err := s.app.CatalogService.ListProducts(r.Context(), r.URL.Query().Get("creator"))
		if err != nil {
			WriteFault(w, err)
			return
		}
		views := make([]*productView, 0, len(products))
		for _, p := range products {
			view, err := s.productView(r, p)
			if err != nil {
				WriteFault(w, err)
				return
			}
			views = append(views, view)
		}
		WriteJSON(w, http.StatusOK, views)

	case http.MethodPost:
		var product models.Product
		if !DecodeJSON(w, r, &product) {
			return
		}
		caller := common.CallerFromContext(r.Context())
		created, err := s.app.CatalogService.CreateProduct(r.Context(), caller, &product)
		if err != nil {
			WriteFault(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, created)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routeProducts dispatches /api/products/{id} and /api/products/{id}/stock.
func (s *Server) routeProducts(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/stock") {
		s.handleProductStock(w, r)
		return
	}

	productID := PathParam(r, "/api/products/", "")
	if productID == "" {
		WriteError(w, http.StatusBadRequest, "product id is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		product, err := s.app.CatalogService.GetProduct(r.Context(), productID)
		if err != nil {
			WriteFault(w, err)
			return
		}
		view, err := s.productView(r, product)
		if err != nil {
			WriteFault(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, view)

	case http.MethodPut:
		var product models.Product
		if !DecodeJSON(w, r, &product) {
			return
		}
		product.ID = productID
		caller := common.CallerFromContext(r.Context())
		updated, err := s.app.CatalogService.UpdateProduct(r.Context(), caller, &product)
		if err != nil {
			WriteFault(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		caller := common.CallerFromContext(r.Context())
		if err := s.app.CatalogService.DeleteProduct(r.Context(), caller, productID); err != nil {
			WriteFault(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handleProductStock handles POST /api/products/{id}/stock.
func (s *Server) handleProductStock(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	productID := PathParam(r, "/api/products/", "/stock")
	var req struct {
		Delta int `json:"delta"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	caller := common.CallerFromContext(r.Context())
	product, err := s.app.CatalogService.AdjustStock(r.Context(), caller, productID, req.Delta)
	if err != nil {
		WriteFault(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, product)
}

// handlePromotions handles GET /api/promotions?category= and POST /api/promotions.
func (s *Server) handlePromotions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		promos, err := s.app.CatalogService.ListPromotions(r.Context(), r.URL.Query().Get("category"))
		if err != nil {
			WriteFault(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, promos)

	case http.MethodPost:
		var promo models.Promotion
		if !DecodeJSON(w, r, &promo) {
			return
		}
		caller := common.CallerFromContext(r.Context())
		created, err := s.app.CatalogService.CreatePromotion(r.Context(), caller, &promo)
		if err != nil {
			WriteFault(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, created)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routePromotions dispatches /api/promotions/{id}.
func (s *Server) routePromotions(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	promoID := PathParam(r, "/api/promotions/", "")
	caller := common.CallerFromContext(r.Context())
	if err := s.app.CatalogService.DeletePromotion(r.Context(), caller, promoID); err != nil {
		WriteFault(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
