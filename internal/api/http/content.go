package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/welcomedesk/welcomedesk/internal/hr"
)

func ListAboutSectionsHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.AboutSections(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, list)
	}
}

func CreateAboutSectionHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var s hr.AboutSection
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil || strings.TrimSpace(s.Title) == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		out, err := store.CreateAboutSection(r.Context(), s)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, out)
	}
}

func UpdateAboutSectionHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "sectionID")
		if !ok {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		var s hr.AboutSection
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil || strings.TrimSpace(s.Title) == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		s.ID = id
		if err := store.UpdateAboutSection(r.Context(), s); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteAboutSectionHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "sectionID")
		if !ok {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if err := store.DeleteAboutSection(r.Context(), id); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func GetHelpHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		help, err := store.HelpContent(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, help)
	}
}

func SetHelpTextHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := store.SetHelpText(r.Context(), req.Text); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func CreateHelpButtonHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var b hr.HelpButton
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil || strings.TrimSpace(b.Label) == "" || strings.TrimSpace(b.URL) == "" {
			http.Error(w, "label and url required", http.StatusBadRequest)
			return
		}
		out, err := store.CreateHelpButton(r.Context(), b)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, out)
	}
}

func UpdateHelpButtonHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "buttonID")
		if !ok {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		var b hr.HelpButton
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil || strings.TrimSpace(b.Label) == "" || strings.TrimSpace(b.URL) == "" {
			http.Error(w, "label and url required", http.StatusBadRequest)
			return
		}
		b.ID = id
		if err := store.UpdateHelpButton(r.Context(), b); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteHelpButtonHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "buttonID")
		if !ok {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		if err := store.DeleteHelpButton(r.Context(), id); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
