package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/welcomedesk/welcomedesk/internal/hr"
	"github.com/welcomedesk/welcomedesk/internal/rbac"
)

func ListStaffHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListStaff(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, list)
	}
}

// PUT /staff — create or update a panel account. Password optional on update.
func UpsertStaffHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Username) == "" {
			http.Error(w, "username required", http.StatusBadRequest)
			return
		}
		if req.Role == "" {
			req.Role = "hr"
		}
		if req.Role != "hr" && req.Role != "admin" {
			http.Error(w, "invalid role: "+req.Role, http.StatusBadRequest)
			return
		}

		acc := hr.StaffAccount{Username: strings.TrimSpace(req.Username), Role: req.Role}
		if req.Password != "" {
			b, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
			if err != nil {
				http.Error(w, err.Error(), 500)
				return
			}
			acc.PassHash = string(b)
		} else {
			existing, err := store.GetStaff(r.Context(), acc.Username)
			if err != nil {
				http.Error(w, "password required for new account", http.StatusBadRequest)
				return
			}
			acc.PassHash = existing.PassHash
		}
		if err := store.UpsertStaff(r.Context(), acc); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, acc)
	}
}

func DeleteStaffHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := strings.TrimSpace(r.URL.Query().Get("username"))
		if username == "" {
			http.Error(w, "username required", http.StatusBadRequest)
			return
		}
		// no self-lockout from the panel
		if username == rbac.SubjectFromContext(r.Context()) {
			http.Error(w, "cannot delete own account", http.StatusBadRequest)
			return
		}
		if err := store.DeleteStaff(r.Context(), username); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
