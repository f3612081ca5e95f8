package ticket

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/heliocrm/api-leads/internal/auth"
	"github.com/heliocrm/api-leads/internal/user"
)

// Handler encapsulates DB and repositories
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Users      user.Repository
	validate   *validator.Validate
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Users:      user.NewRepository(),
		validate:   validator.New(),
	}
}

type createTicketRequest struct {
	CustomerName  string `json:"customerName" validate:"required"`
	CustomerPhone string `json:"customerPhone" validate:"required"`
	Subject       string `json:"subject" validate:"required"`
	Description   string `json:"description"`
	Priority      string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

// Create handles POST /api/tickets
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(auth.CtxUserID).(uint)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	userName, _ := r.Context().Value(auth.CtxUserName).(string)

	var req createTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	priority := Priority(req.Priority)
	if req.Priority == "" {
		priority = PriorityMedium
	}

	t := Ticket{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Subject:       req.Subject,
		Description:   req.Description,
		Status:        StatusOpen,
		Priority:      priority,
		CreatedByID:   userID,
		CreatedByName: userName,
	}
	if err := h.Repository.Create(h.DB, &t); err != nil {
		http.Error(w, "failed to create ticket", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(t)
}

// List handles GET /api/tickets?status=&priority=&technicianId=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var filter Filter

	if v := r.URL.Query().Get("status"); v != "" {
		status := Status(v)
		if !status.Valid() {
			http.Error(w, "unknown status", http.StatusBadRequest)
			return
		}
		filter.Status = &status
	}
	if v := r.URL.Query().Get("priority"); v != "" {
		priority := Priority(v)
		if !priority.Valid() {
			http.Error(w, "unknown priority", http.StatusBadRequest)
			return
		}
		filter.Priority = &priority
	}
	if v := r.URL.Query().Get("technicianId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid technicianId", http.StatusBadRequest)
			return
		}
		techID := uint(id)
		filter.TechnicianID = &techID
	}

	list, err := h.Repository.ByFilter(h.DB, filter)
	if err != nil {
		http.Error(w, "failed to list tickets", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// Get handles GET /api/tickets/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	t, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "ticket not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to fetch ticket", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(t)
}

type updateTicketRequest struct {
	CustomerName  string `json:"customerName" validate:"required"`
	CustomerPhone string `json:"customerPhone" validate:"required"`
	Subject       string `json:"subject" validate:"required"`
	Description   string `json:"description"`
	Priority      string `json:"priority" validate:"required,oneof=low medium high urgent"`
}

// Update handles PUT /api/tickets/{id}. Status and technician are only
// mutated through their dedicated routes.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "ticket not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to fetch ticket", http.StatusInternalServerError)
		return
	}

	t.CustomerName = req.CustomerName
	t.CustomerPhone = req.CustomerPhone
	t.Subject = req.Subject
	t.Description = req.Description
	t.Priority = Priority(req.Priority)

	if err := h.Repository.Update(h.DB, t); err != nil {
		http.Error(w, "failed to update ticket", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(t)
}

// UpdateStatus handles PATCH /api/tickets/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	status := Status(payload.Status)
	if !status.Valid() {
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}

	if err := h.Repository.UpdateStatus(h.DB, uint(id), status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "ticket not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to update ticket status", http.StatusInternalServerError)
		return
	}

	t, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "failed to fetch ticket", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(t)
}

// AssignTechnician handles PATCH /api/tickets/{id}/technician
func (h *Handler) AssignTechnician(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var payload struct {
		TechnicianID uint `json:"technicianId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.TechnicianID == 0 {
		http.Error(w, "the 'technicianId' field is required", http.StatusBadRequest)
		return
	}

	tech, err := h.Users.FindByID(h.DB, payload.TechnicianID)
	if err != nil || !tech.Active || tech.Role != user.RoleTechnician {
		http.Error(w, "target user is not an active technician", http.StatusBadRequest)
		return
	}

	if err := h.Repository.UpdateTechnician(h.DB, uint(id), tech.ID, tech.Name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "ticket not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to assign technician", http.StatusInternalServerError)
		return
	}

	t, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "failed to fetch ticket", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(t)
}
