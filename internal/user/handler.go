package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/heliocrm/api-leads/internal/utils"
)

// Handler encapsulates DB and repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	validate   *validator.Validate
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		validate:   validator.New(),
	}
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Role     string `json:"role" validate:"required,oneof=salesman call_operator technician team_lead super_admin"`
	Password string `json:"password"`
}

type createUserResponse struct {
	User
	// TempPassword is only returned once, when no password was supplied.
	TempPassword string `json:"tempPassword,omitempty"`
}

// Create handles POST /api/users
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u := User{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Role:   Role(req.Role),
		Active: true,
	}

	var tempPassword string
	password := req.Password
	if password == "" {
		tmp, err := utils.GenerateTemporaryPassword()
		if err != nil {
			http.Error(w, "failed to generate password", http.StatusInternalServerError)
			return
		}
		password = tmp
		tempPassword = tmp
		u.MustResetPassword = true
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}
	u.Password = hash

	if err := h.Repository.Create(h.DB, &u); err != nil {
		http.Error(w, "failed to create user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(createUserResponse{User: u, TempPassword: tempPassword})
}

// List handles GET /api/users?role=call_operator
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	role := Role(r.URL.Query().Get("role"))
	if !role.Valid() {
		http.Error(w, "unknown role", http.StatusBadRequest)
		return
	}

	list, err := h.Repository.ListActiveByRole(h.DB, role)
	if err != nil {
		http.Error(w, "failed to list users", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// Get handles GET /api/users/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	u, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to fetch user", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}

// SetActive handles PATCH /api/users/{id}/active
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var payload struct {
		Active *bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Active == nil {
		http.Error(w, "the 'active' field is required", http.StatusBadRequest)
		return
	}

	if err := h.Repository.SetActive(h.DB, uint(id), *payload.Active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to update user", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
