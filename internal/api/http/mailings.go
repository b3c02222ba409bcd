package http

import (
	"encoding/json"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/welcomedesk/welcomedesk/internal/hr"
	"github.com/welcomedesk/welcomedesk/internal/storage"
)

// POST /mailings — {"text": "...", "department_ids": [1,2], "scheduled_at": 1735719000}
// scheduled_at omitted or zero means "send on the next dispatcher tick".
// Empty department_ids targets every active employee.
func CreateMailingHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text          string  `json:"text"`
			DepartmentIDs []int64 `json:"department_ids"`
			ScheduledAt   int64   `json:"scheduled_at"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.ScheduledAt == 0 {
			req.ScheduledAt = time.Now().Unix()
		}
		m, err := store.CreateMailing(r.Context(), hr.Mailing{
			Text:          req.Text,
			DepartmentIDs: req.DepartmentIDs,
			ScheduledAt:   req.ScheduledAt,
		})
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, m)
	}
}

// POST /mailings/{mailingID}/attachments — multipart: file=, kind=photo|video|document.
// A mailing with no text and only attachments is legal.
func AddAttachmentHandler(store hr.Store, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "mailingID")
		if !ok {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		kind := strings.TrimSpace(r.FormValue("kind"))
		switch kind {
		case hr.AttachmentPhoto, hr.AttachmentVideo, hr.AttachmentDocument:
		default:
			http.Error(w, "kind must be photo, video or document", http.StatusBadRequest)
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		key := "mailings/" + uuid.NewString() + path.Ext(hdr.Filename)
		if _, err := bs.Put(key, f); err != nil {
			http.Error(w, "store error: "+err.Error(), 500)
			return
		}
		att, err := store.AddAttachment(r.Context(), hr.Attachment{
			MailingID: id,
			Kind:      kind,
			FileKey:   key,
		})
		if err != nil {
			_ = bs.Delete(key)
			storeError(w, err)
			return
		}
		writeJSON(w, att)
	}
}

func ListMailingsHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListMailings(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, list)
	}
}

// DELETE works only while the mailing is still queued; the dispatcher skips
// rows that vanish between tick and send.
func DeleteMailingHandler(store hr.Store, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "mailingID")
		if !ok {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		atts, err := store.MailingAttachments(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if err := store.DeleteMailing(r.Context(), id); err != nil {
			storeError(w, err)
			return
		}
		for _, a := range atts {
			_ = bs.Delete(a.FileKey)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
