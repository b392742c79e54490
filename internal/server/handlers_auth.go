package server

import (
	"net/http"

	"github.com/bobmcallan/satchel/internal/common"
)

// --- Auth handlers ---

// handleAuthLogin handles POST /api/auth/login.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	token, user, err := s.app.IdentityService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteFault(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// handleAuthPassword handles PUT /api/auth/password.
func (s *Server) handleAuthPassword(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	var req struct {
		UserID   string `json:"user_id"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	caller := common.CallerFromContext(r.Context())
	if req.UserID == "" && caller != nil {
		req.UserID = caller.UserID
	}

	if err := s.app.IdentityService.SetPassword(r.Context(), caller, req.UserID, req.Password); err != nil {
		WriteFault(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}
