package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/internportal/internal/common"
	"github.com/dmitrijs2005/internportal/internal/server/models"
	"github.com/dmitrijs2005/internportal/internal/server/services"
)

const dateLayout = "2006-01-02"

type entryRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	EntryDate string `json:"entryDate"`
}

type entryResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	EntryDate     time.Time `json:"entryDate"`
	HasAttachment bool      `json:"hasAttachment"`
	CreatedAt     time.Time `json:"createdAt"`
}

type attachmentResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

var entryMessages = map[error]string{
	common.ErrorNotFound:   "entry not found",
	common.ErrorValidation: "title is required",
}

func toEntryResponse(e *models.DataEntry) entryResponse {
	return entryResponse{
		ID:            e.ID,
		Title:         e.Title,
		Content:       e.Content,
		EntryDate:     e.EntryDate.UTC(),
		HasAttachment: e.AttachmentKey != "",
		CreatedAt:     e.CreatedAt.UTC(),
	}
}

// parseEntryDate accepts RFC 3339 timestamps and plain dates. Empty means
// "now" and is resolved by the service.
func parseEntryDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(dateLayout, s)
}

// owner resolves the caller and, for item routes, the {id} parameter. It
// writes the error response itself and reports whether to continue.
func (h *Handler) owner(w http.ResponseWriter, r *http.Request, withID bool) (uid, id int64, ok bool) {
	uid, err := userID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return 0, 0, false
	}
	if !withID {
		return uid, 0, true
	}

	id, err = strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return 0, 0, false
	}
	return uid, id, true
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := h.owner(w, r, false)
	if !ok {
		return
	}

	list, err := h.entries.List(r.Context(), uid)
	if err != nil {
		h.failure(w, r, err, entryMessages)
		return
	}

	out := make([]entryResponse, 0, len(list))
	for i := range list {
		out = append(out, toEntryResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createEntry(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := h.owner(w, r, false)
	if !ok {
		return
	}

	var req entryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := parseEntryDate(req.EntryDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry date")
		return
	}

	e, err := h.entries.Create(r.Context(), uid, services.NewEntry{
		Title:     req.Title,
		Content:   req.Content,
		EntryDate: date,
	})
	if err != nil {
		h.failure(w, r, err, entryMessages)
		return
	}

	writeJSON(w, http.StatusCreated, toEntryResponse(e))
}

func (h *Handler) getEntry(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := h.owner(w, r, true)
	if !ok {
		return
	}

	e, err := h.entries.Get(r.Context(), uid, id)
	if err != nil {
		h.failure(w, r, err, entryMessages)
		return
	}

	writeJSON(w, http.StatusOK, toEntryResponse(e))
}

func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := h.owner(w, r, true)
	if !ok {
		return
	}

	if err := h.entries.Delete(r.Context(), uid, id); err != nil {
		h.failure(w, r, err, entryMessages)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) attachmentUpload(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := h.owner(w, r, true)
	if !ok {
		return
	}

	a, err := h.entries.AttachmentUploadURL(r.Context(), uid, id)
	if err != nil {
		h.failure(w, r, err, entryMessages)
		return
	}

	writeJSON(w, http.StatusOK, attachmentResponse{Key: a.Key, URL: a.URL})
}

func (h *Handler) attachmentDownload(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := h.owner(w, r, true)
	if !ok {
		return
	}

	a, err := h.entries.AttachmentDownloadURL(r.Context(), uid, id)
	if err != nil {
		h.failure(w, r, err, map[error]string{
			common.ErrorNotFound: "attachment not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, attachmentResponse{Key: a.Key, URL: a.URL})
}
