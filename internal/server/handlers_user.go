package server

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/models"
)

// --- User handlers ---

// handleUserMe handles GET /api/users/me.
func (s *Server) handleUserMe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	caller := common.CallerFromContext(r.Context())
	if caller == nil {
		WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	// First authenticated sighting provisions the default profile.
	user, err := s.app.ProfileService.EnsureExists(r.Context(), caller.UserID, caller.Email)
	if err != nil {
		WriteFault(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// handleUserList handles GET /api/users?role=.
func (s *Server) handleUserList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	caller := common.CallerFromContext(r.Context())
	users, err := s.app.ProfileService.List(r.Context(), caller, models.Role(r.URL.Query().Get("role")))
	if err != nil {
		WriteFault(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, users)
}

// routeUsers dispatches /api/users/{id} and /api/users/{id}/role.
func (s *Server) routeUsers(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/role") {
		s.handleUserSetRole(w, r)
		return
	}

	userID := PathParam(r, "/api/users/", "")
	if userID == "" {
		WriteError(w, http.StatusBadRequest, "user id is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleUserGet(w, r, userID)
	case http.MethodPut:
		s.handleUserSave(w, r, userID)
	case http.MethodDelete:
		s.handleUserDelete(w, r, userID)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (s *Server) handleUserGet(w http.ResponseWriter, r *http.Request, userID string) {
	user, err := s.app.ProfileService.Get(r.Context(), userID)
	if err != nil {
		WriteFault(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

func (s *Server) handleUserSave(w http.ResponseWriter, r *http.Request, userID string) {
	var profile models.User
	if !DecodeJSON(w, r, &profile) {
		return
	}
	profile.ID = userID

	caller := common.CallerFromContext(r.Context())
	saved, err := s.app.ProfileService.Save(r.Context(), caller, &profile)
	if err != nil {
		WriteFault(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, saved)
}

func (s *Server) handleUserDelete(w http.ResponseWriter, r *http.Request, userID string) {
	caller := common.CallerFromContext(r.Context())
	if err := s.app.ProfileService.Delete(r.Context(), caller, userID); err != nil {
		WriteFault(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleUserSetRole handles PUT /api/users/{id}/role.
func (s *Server) handleUserSetRole(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	userID := PathParam(r, "/api/users/", "/role")
	var req struct {
		Role  string `json:"role"`
		Level string `json:"level"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	caller := common.CallerFromContext(r.Context())
	user, err := s.app.ProfileService.SetRole(r.Context(), caller, userID, models.Role(req.Role), models.Level(req.Level))
	if err != nil {
		WriteFault(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}
