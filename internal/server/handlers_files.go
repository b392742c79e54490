package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/models"
)

// --- File handlers ---

// allowed upload folders; everything else 404s.
var uploadFolders = map[string]bool{
	"avatars":  true,
	"products": true,
	"hobbies":  true,
}

// splitFilePath extracts (folder, key) from a path after prefix.
func splitFilePath(path, prefix string) (string, string) {
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", ""
	}
	return parts[0], parts[1]
}

// handleFileUpload handles POST and DELETE /api/files/{folder}/{key}.
// The raw request body is the file content.
func (s *Server) handleFileUpload(w http.ResponseWriter, r *http.Request) {
	folder, key := splitFilePath(r.URL.Path, "/api/files/")
	if folder == "" || !uploadFolders[folder] {
		WriteError(w, http.StatusNotFound, "unknown upload folder")
		return
	}

	caller := common.CallerFromContext(r.Context())
	if caller == nil {
		WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	switch r.Method {
	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, 5<<20) // 5MB limit
		data, err := io.ReadAll(r.Body)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "failed to read upload: "+err.Error())
			return
		}
		if len(data) == 0 {
			WriteError(w, http.StatusBadRequest, "upload body is empty")
			return
		}

		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}

		url, err := s.app.Storage.Files().SaveFile(r.Context(), folder, key, data, contentType)
		if err != nil {
			WriteFault(w, models.EnsureFault(err))
			return
		}
		WriteJSON(w, http.StatusCreated, map[string]string{"url": url})

	case http.MethodDelete:
		if caller.Role != models.RoleAdmin {
			WriteError(w, http.StatusForbidden, "only admins may delete files")
			return
		}
		if err := s.app.Storage.Files().DeleteFile(r.Context(), folder, key); err != nil {
			WriteFault(w, models.EnsureFault(err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		RequireMethod(w, r, http.MethodPost, http.MethodDelete)
	}
}

// handleFileServe handles GET /files/{folder}/{key}.
func (s *Server) handleFileServe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	folder, key := splitFilePath(r.URL.Path, "/files/")
	if folder == "" {
		WriteError(w, http.StatusNotFound, "file not found")
		return
	}

	data, contentType, err := s.app.Storage.Files().GetFile(r.Context(), folder, key)
	if err != nil {
		WriteFault(w, models.EnsureFault(err))
		return
	}

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
