package models

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Username
	// required: true
	// example: john_doe
	Username string `json:"username"`

	// Email
	// required: true
	// example: john@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// example: secret123
	Password string `json:"password"`
}

// RegisterResponse is returned for every registration attempt
// swagger:model RegisterResponse
type RegisterResponse struct {
	// Whether the user was registered
	// example: true
	Success bool `json:"success"`

	// Human-readable outcome
	// example: Registered
	Message string `json:"message"`
}
