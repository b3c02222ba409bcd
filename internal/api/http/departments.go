package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/welcomedesk/welcomedesk/internal/hr"
)

func ListDepartmentsHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps, err := store.ListDepartments(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, deps)
	}
}

func CreateDepartmentHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		dep, err := store.CreateDepartment(r.Context(), strings.TrimSpace(req.Name))
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, dep)
	}
}

func RenameDepartmentHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "departmentID")
		if !ok {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		if err := store.RenameDepartment(r.Context(), id, strings.TrimSpace(req.Name)); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Employees of the deleted department keep their accounts and fall back to
// "no department": the bot stops offering documents and quizzes until HR
// reassigns them.
func DeleteDepartmentHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "departmentID")
		if !ok {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if err := store.DeleteDepartment(r.Context(), id); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
