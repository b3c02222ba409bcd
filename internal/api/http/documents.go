package http

import (
	"encoding/json"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/welcomedesk/welcomedesk/internal/hr"
	"github.com/welcomedesk/welcomedesk/internal/storage"
)

// POST /documents — multipart form: file=, title=, description=,
// department_ids=1,2,3. The file lands in the blob store under a generated
// key; department members get a bot notification once the row is committed.
func UploadDocumentHandler(store hr.Store, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		title := strings.TrimSpace(r.FormValue("title"))
		if title == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		deptIDs, err := parseIDList(r.FormValue("department_ids"))
		if err != nil {
			http.Error(w, "bad department_ids", http.StatusBadRequest)
			return
		}

		key := "documents/" + uuid.NewString() + path.Ext(hdr.Filename)
		if _, err := bs.Put(key, f); err != nil {
			http.Error(w, "store error: "+err.Error(), 500)
			return
		}

		doc, err := store.CreateDocument(r.Context(), hr.Document{
			Title:         title,
			Description:   strings.TrimSpace(r.FormValue("description")),
			FileKey:       key,
			DepartmentIDs: deptIDs,
		})
		if err != nil {
			_ = bs.Delete(key)
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, doc)
	}
}

func ListDocumentsHandler(store hr.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := store.ListDocuments(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, docs)
	}
}

// GET /documents/{documentID}/file streams the stored file back.
func GetDocumentFileHandler(store hr.Store, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "documentID")
		if !ok {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		doc, err := store.GetDocument(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		rc, err := bs.Get(doc.FileKey)
		if err != nil {
			http.Error(w, "file missing", http.StatusNotFound)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", `attachment; filename="`+path.Base(doc.FileKey)+`"`)
		_, _ = io.Copy(w, rc)
	}
}

// Quizzes referencing the document stay in place; their sessions keep their
// own question snapshot.
func DeleteDocumentHandler(store hr.Store, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "documentID")
		if !ok {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		doc, err := store.GetDocument(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		if err := store.DeleteDocument(r.Context(), id); err != nil {
			storeError(w, err)
			return
		}
		_ = bs.Delete(doc.FileKey)
		w.WriteHeader(http.StatusNoContent)
	}
}

func parseIDList(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	// accept either "1,2,3" or a JSON array
	if strings.HasPrefix(s, "[") {
		var ids []int64
		if err := json.Unmarshal([]byte(s), &ids); err != nil {
			return nil, err
		}
		return ids, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, v)
	}
	return ids, nil
}
