package models

// LoginRequest represents the JSON body for user login
// swagger:model LoginRequest
type LoginRequest struct {
	// Username
	// required: true
	// example: john_doe
	Username string `json:"username"`

	// Password
	// required: true
	// example: secret123
	Password string `json:"password"`
}

// LoginResponse is returned for every login attempt. User is set only on success.
// swagger:model LoginResponse
type LoginResponse struct {
	// Whether the credentials matched
	// example: true
	Success bool `json:"success"`

	// Human-readable outcome
	// example: Logged in
	Message string `json:"message"`

	// Logged in user, never includes the password
	User *UserView `json:"user,omitempty"`
}
