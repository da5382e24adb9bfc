package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/gw-user-store/internal/logger"
)

// Response messages shared with the web front end.
const (
	msgRegistered     = "Registered"
	msgUserExists     = "User exists"
	msgLoggedIn       = "Logged in"
	msgInvalid        = "Invalid"
	msgInvalidRequest = "Invalid request body"
	msgServerError    = "Server error"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Errorw("failed to encode response", "status", status, "err", err)
	}
}
