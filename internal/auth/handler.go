package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/heliocrm/api-leads/internal/user"
	"github.com/heliocrm/api-leads/internal/utils"
)

type loginResponse struct {
	Token             string    `json:"token"`
	UserID            uint      `json:"userId"`
	Name              string    `json:"name"`
	Role              user.Role `json:"role"`
	MustResetPassword bool      `json:"mustResetPassword"`
}

// LoginHandler handles POST /login
func LoginHandler(db *gorm.DB) http.HandlerFunc {
	repo := user.NewRepository()
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Email == "" || req.Password == "" {
			http.Error(w, "email and password are required", http.StatusBadRequest)
			return
		}

		u, err := repo.FindByEmail(db, req.Email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			http.Error(w, "failed to fetch user", http.StatusInternalServerError)
			return
		}
		if !u.Active || !utils.CheckPassword(u.Password, req.Password) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		token, err := GenerateToken(u.ID, u.Name, string(u.Role))
		if err != nil {
			http.Error(w, "failed to issue token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(loginResponse{
			Token:             token,
			UserID:            u.ID,
			Name:              u.Name,
			Role:              u.Role,
			MustResetPassword: u.MustResetPassword,
		})
	}
}
