package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-user-store/internal/logger"
	"github.com/sbilibin2017/gw-user-store/internal/models"
	"github.com/sbilibin2017/gw-user-store/internal/services"
)

//go:generate mockgen -source=login.go -destination=login_mock.go -package=handlers

// Authenticator defines the interface that the login service must implement.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.UserView, error)
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary User login
// @Description Checks username and password and returns the user's public profile
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body models.LoginRequest true "Login Request"
// @Success 200 {object} models.LoginResponse "Logged in"
// @Failure 400 {object} models.LoginResponse "Invalid request body"
// @Failure 401 {object} models.LoginResponse "Invalid username or password"
// @Failure 500 {object} models.LoginResponse "Server error"
// @Router /login [post]
func NewLoginHandler(svc Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, models.LoginResponse{
				Message: msgInvalidRequest,
			})
			return
		}

		user, err := svc.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidCredentials):
				writeJSON(w, http.StatusUnauthorized, models.LoginResponse{
					Message: msgInvalid,
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, models.LoginResponse{
					Message: msgServerError,
				})
			}
			return
		}

		writeJSON(w, http.StatusOK, models.LoginResponse{
			Success: true,
			Message: msgLoggedIn,
			User:    user,
		})
	}
}
