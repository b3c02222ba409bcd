package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/welcomedesk/welcomedesk/internal/hr"
)

// POST /quizzes — JSON body is a quiz with its full nested question tree:
//
//	{"title": "...", "document_id": 1, "department_id": 2,
//	 "questions": [{"text": "...", "answers": [{"text": "...", "is_correct": true}, ...]}, ...]}
func CreateQuizHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in hr.QuizInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(in.Title) == "" || in.DepartmentID == 0 {
			http.Error(w, "title and department_id required", http.StatusBadRequest)
			return
		}
		for _, q := range in.Questions {
			if strings.TrimSpace(q.Text) == "" || len(q.Answers) == 0 {
				http.Error(w, "every question needs text and answers", http.StatusBadRequest)
				return
			}
			correct := 0
			for _, a := range q.Answers {
				if a.IsCorrect {
					correct++
				}
			}
			if correct != 1 {
				http.Error(w, "every question needs exactly one correct answer", http.StatusBadRequest)
				return
			}
		}
		qz, err := store.CreateQuiz(r.Context(), in)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, qz)
	}
}

func ListQuizzesHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListQuizzes(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, list)
	}
}

// GET /quizzes/{quizID} returns the quiz with questions and answers inlined.
func GetQuizHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "quizID")
		if !ok {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		qz, err := store.GetQuiz(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		questions, err := store.QuizQuestions(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		type questionOut struct {
			hr.Question
			Answers []hr.Answer `json:"answers"`
		}
		out := make([]questionOut, 0, len(questions))
		for _, q := range questions {
			answers, err := store.AnswersByQuestion(r.Context(), q.ID)
			if err != nil {
				http.Error(w, err.Error(), 500)
				return
			}
			out = append(out, questionOut{Question: q, Answers: answers})
		}
		writeJSON(w, map[string]any{"quiz": qz, "questions": out})
	}
}

func DeleteQuizHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "quizID")
		if !ok {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if err := store.DeleteQuiz(r.Context(), id); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
