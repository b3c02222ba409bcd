package http

import (
	"net/http"
	"strconv"

	"github.com/welcomedesk/welcomedesk/internal/hr"
)

// GET /attempts?quiz_id=...&employee_id=...&limit=50&offset=0
// Attempts are read-only over HTTP; the only writer is the bot's quiz flow.
func ListAttemptsHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		opts := hr.AttemptListOpts{
			Limit:  parseIntDefault(q.Get("limit"), 50),
			Offset: parseIntDefault(q.Get("offset"), 0),
		}
		if v, err := strconv.ParseInt(q.Get("quiz_id"), 10, 64); err == nil {
			opts.QuizID = v
		}
		if v, err := strconv.ParseInt(q.Get("employee_id"), 10, 64); err == nil {
			opts.EmployeeID = v
		}
		list, err := store.ListAttempts(r.Context(), opts)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, list)
	}
}

// GET /attempts/{attemptID}/answers — the per-question choices of one attempt.
func AttemptAnswersHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "attemptID")
		if !ok {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		answers, err := store.AttemptAnswers(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, answers)
	}
}
