package calllog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// Handler serves the read side of the interaction log. Writes go through the
// lead service, which owns the coupled lead-row mutations.
type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
	}
}

type pagedResponse struct {
	Items      any   `json:"items"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	Total      int64 `json:"total"`
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ListCallLogs handles GET /api/leads/{id}/call-logs?page=N
func (h *Handler) ListCallLogs(w http.ResponseWriter, r *http.Request) {
	leadID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid lead id", http.StatusBadRequest)
		return
	}
	page := pageParam(r)

	logs, err := h.Repository.ListCallLogs(h.DB, uint(leadID), page)
	if err != nil {
		http.Error(w, "failed to list call logs", http.StatusInternalServerError)
		return
	}
	total, err := h.Repository.CountCallLogs(h.DB, uint(leadID))
	if err != nil {
		http.Error(w, "failed to count call logs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(pagedResponse{
		Items:      logs,
		Page:       page,
		TotalPages: TotalPages(total),
		Total:      total,
	})
}

// ListCallLaterLogs handles GET /api/leads/{id}/call-laters?page=N
func (h *Handler) ListCallLaterLogs(w http.ResponseWriter, r *http.Request) {
	leadID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid lead id", http.StatusBadRequest)
		return
	}
	page := pageParam(r)

	logs, err := h.Repository.ListCallLaterLogs(h.DB, uint(leadID), page)
	if err != nil {
		http.Error(w, "failed to list call later logs", http.StatusInternalServerError)
		return
	}
	total, err := h.Repository.CountCallLaterLogs(h.DB, uint(leadID))
	if err != nil {
		http.Error(w, "failed to count call later logs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(pagedResponse{
		Items:      logs,
		Page:       page,
		TotalPages: TotalPages(total),
		Total:      total,
	})
}
