package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/welcomedesk/welcomedesk/internal/hr"
)

// GET /employees?department_id=...&active=1&pending=1&limit=50&offset=0
func ListEmployeesHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		opts := hr.EmployeeListOpts{
			ActiveOnly:  q.Get("active") == "1",
			PendingOnly: q.Get("pending") == "1",
			Limit:       parseIntDefault(q.Get("limit"), 50),
			Offset:      parseIntDefault(q.Get("offset"), 0),
		}
		if v, err := strconv.ParseInt(q.Get("department_id"), 10, 64); err == nil {
			opts.DepartmentID = v
		}
		list, err := store.ListEmployees(r.Context(), opts)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, list)
	}
}

func GetEmployeeHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "employeeID")
		if !ok {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		emp, err := store.GetEmployee(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		stats, err := store.EmployeeQuizStats(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, map[string]any{"employee": emp, "quiz_stats": stats})
	}
}

// POST /employees/{employeeID}/active {"active": true} unlocks the bot for a
// newly registered employee; false locks it again.
func SetEmployeeActiveHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "employeeID")
		if !ok {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		var req struct {
			Active bool `json:"active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := store.SetEmployeeActive(r.Context(), id, req.Active); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /employees/{employeeID}/department {"department_id": 3} — null detaches.
func AssignDepartmentHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "employeeID")
		if !ok {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		var req struct {
			DepartmentID *int64 `json:"department_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := store.AssignDepartment(r.Context(), id, req.DepartmentID); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func AddCommentHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "employeeID")
		if !ok {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		var req struct {
			Comment string `json:"comment"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Comment) == "" {
			http.Error(w, "comment required", http.StatusBadRequest)
			return
		}
		c, err := store.AddComment(r.Context(), id, strings.TrimSpace(req.Comment))
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, c)
	}
}

func ListCommentsHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "employeeID")
		if !ok {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		list, err := store.ListComments(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, list)
	}
}
