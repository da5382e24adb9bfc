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

//go:generate mockgen -source=register.go -destination=register_mock.go -package=handlers

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Register(ctx context.Context, username, email, password string) error
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new user account. Username and email must both be unused.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body models.RegisterRequest true "User registration request"
// @Success 201 {object} models.RegisterResponse "User registered"
// @Failure 400 {object} models.RegisterResponse "User exists / missing fields / invalid request"
// @Failure 500 {object} models.RegisterResponse "Server error"
// @Router /register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, models.RegisterResponse{
				Message: msgInvalidRequest,
			})
			return
		}

		err := svc.Register(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			var verr *services.ValidationError
			switch {
			case errors.Is(err, services.ErrUserAlreadyExists):
				writeJSON(w, http.StatusBadRequest, models.RegisterResponse{
					Message: msgUserExists,
				})
			case errors.As(err, &verr):
				writeJSON(w, http.StatusBadRequest, models.RegisterResponse{
					Message: verr.Error(),
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, models.RegisterResponse{
					Message: msgServerError,
				})
			}
			return
		}

		writeJSON(w, http.StatusCreated, models.RegisterResponse{
			Success: true,
			Message: msgRegistered,
		})
	}
}
